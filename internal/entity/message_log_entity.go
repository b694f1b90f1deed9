package entity

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

type MessageLog struct {
	Id        uuid.UUID
	Username  string
	Message   string
	Direction Direction
	CreatedAt time.Time
}
