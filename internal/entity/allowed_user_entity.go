package entity

import "time"

type AllowedUser struct {
	Username  string
	CreatedAt time.Time
}
