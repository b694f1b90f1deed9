package dto

import "time"

// MessageLogPayload travels through the audit pipeline.
type MessageLogPayload struct {
	Username   string    `json:"username"`
	Message    string    `json:"message"`
	Direction  string    `json:"direction"`
	OccurredAt time.Time `json:"occurred_at"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}
