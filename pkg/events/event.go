package events

import (
	"context"
	"time"
)

const (
	DialogStarted    = "DIALOG_STARTED"
	DialogActivated  = "DIALOG_ACTIVATED"
	DialogFinished   = "DIALOG_FINISHED"
	GenerationFailed = "GENERATION_FAILED"
	AccessDenied     = "ACCESS_DENIED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DIALOG_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDialogEvent builds a lifecycle event for one chat.
func NewDialogEvent(eventType string, chatID int64, username string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"chat_id":  chatID,
		"username": username,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

// Publisher is the outbound side of the event bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards events; used when no bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
