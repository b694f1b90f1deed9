package store

import "time"

// DialogState is the position of a conversation in the onboarding/Q&A flow.
type DialogState string

const (
	StateAwaitingConfirmation DialogState = "AWAITING_CONFIRMATION"
	StateAwaitingReady        DialogState = "AWAITING_READY"
	StateActive               DialogState = "ACTIVE"
	StateFinished             DialogState = "FINISHED"
)

func (s DialogState) String() string {
	return string(s)
}

type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Turn is one utterance of the conversation history.
type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Session represents the in-memory state of one chat
type Session struct {
	ChatID   int64       `json:"chat_id"`
	Username string      `json:"username"`
	State    DialogState `json:"state"`

	// Append-only; never trimmed for the lifetime of the process.
	Turns []Turn `json:"turns"`

	// Rolling text handed to the completion service instead of the full history.
	Summary string `json:"summary"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Chunk is one fragment of the knowledge corpus
type Chunk struct {
	ID      string  `json:"id"`
	Index   int     `json:"index"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}
