package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username  string    `gorm:"type:text;not null;index"`
	Message   string    `gorm:"type:text"`
	Direction string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (MessageLog) TableName() string {
	return "messages"
}
