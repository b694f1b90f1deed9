package model

import "time"

type AllowedUser struct {
	Username  string    `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AllowedUser) TableName() string {
	return "allowed_users"
}
