package state

import (
	"errors"
	"fmt"
	"strings"

	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/pkg/store"
)

var ErrInvalidTransition = errors.New("invalid dialog transition")

// Outcome tells the caller what a message did to the dialog.
type Outcome string

const (
	OutcomeConfirmed            Outcome = "CONFIRMED"
	OutcomeRepromptConfirmation Outcome = "REPROMPT_CONFIRMATION"
	OutcomeReady                Outcome = "READY"
	OutcomeRepromptReady        Outcome = "REPROMPT_READY"
	OutcomeAnswer               Outcome = "ANSWER"
	OutcomeFinished             Outcome = "FINISHED"
)

// Manager handles session state transitions
type Manager struct {
	transitions   map[store.DialogState][]store.DialogState
	confirmPhrase string
	readyPhrase   string
	logger        logger.ILogger
}

// NewManager creates a new state manager. The phrases are compared
// case-insensitively against the whole user message.
func NewManager(confirmPhrase, readyPhrase string, logger logger.ILogger) *Manager {
	return &Manager{
		transitions: map[store.DialogState][]store.DialogState{
			store.StateAwaitingConfirmation: {store.StateAwaitingReady},
			store.StateAwaitingReady:        {store.StateActive},
			store.StateActive:               {store.StateFinished},
			store.StateFinished:             {}, // Terminal state
		},
		confirmPhrase: confirmPhrase,
		readyPhrase:   readyPhrase,
		logger:        logger,
	}
}

// CanTransition checks if a transition from one state to another is valid.
func (m *Manager) CanTransition(from, to store.DialogState) bool {
	for _, allowed := range m.transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal checks if a state has no outgoing transitions.
func (m *Manager) IsTerminal(s store.DialogState) bool {
	next, exists := m.transitions[s]
	return exists && len(next) == 0
}

// Transition moves the session forward along the graph. Illegal moves leave
// the session untouched.
func (m *Manager) Transition(session *store.Session, to store.DialogState) error {
	from := current(session)
	if !m.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	session.State = to
	m.logger.Debug("STATE", "Transitioned", map[string]interface{}{
		"chat_id": session.ChatID,
		"from":    from,
		"to":      to,
	})
	return nil
}

// Restart is the only backward move: any state goes back to
// AWAITING_CONFIRMATION and the conversation is cleared.
func (m *Manager) Restart(session *store.Session) {
	from := current(session)
	session.State = store.StateAwaitingConfirmation
	session.Turns = nil
	session.Summary = ""
	m.logger.Debug("STATE", "Restarted", map[string]interface{}{
		"chat_id": session.ChatID,
		"from":    from,
	})
}

// Finish drives an active session to the terminal state.
func (m *Manager) Finish(session *store.Session) error {
	return m.Transition(session, store.StateFinished)
}

// Advance applies one user message to the onboarding part of the dialog.
// OutcomeAnswer means the session is ACTIVE and the message needs an answer.
func (m *Manager) Advance(session *store.Session, text string) (Outcome, error) {
	switch current(session) {
	case store.StateFinished:
		return OutcomeFinished, nil

	case store.StateAwaitingConfirmation:
		if !matches(text, m.confirmPhrase) {
			return OutcomeRepromptConfirmation, nil
		}
		if err := m.Transition(session, store.StateAwaitingReady); err != nil {
			return "", err
		}
		return OutcomeConfirmed, nil

	case store.StateAwaitingReady:
		if !matches(text, m.readyPhrase) {
			return OutcomeRepromptReady, nil
		}
		if err := m.Transition(session, store.StateActive); err != nil {
			return "", err
		}
		return OutcomeReady, nil

	case store.StateActive:
		return OutcomeAnswer, nil
	}

	return "", fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, session.State)
}

// current treats a never-started session as awaiting confirmation.
func current(session *store.Session) store.DialogState {
	if session.State == "" {
		return store.StateAwaitingConfirmation
	}
	return session.State
}

// matches compares the whole message, ignoring case only.
func matches(text, phrase string) bool {
	return strings.EqualFold(text, phrase)
}
