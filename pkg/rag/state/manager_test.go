package state

import (
	"testing"

	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager("Хорошо", "Погнали", logger.NewNopLogger())
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name        string
		from        store.DialogState
		text        string
		wantOutcome Outcome
		wantState   store.DialogState
	}{
		{"confirm exact", store.StateAwaitingConfirmation, "Хорошо", OutcomeConfirmed, store.StateAwaitingReady},
		{"confirm upper case", store.StateAwaitingConfirmation, "ХОРОШО", OutcomeConfirmed, store.StateAwaitingReady},
		{"confirm lower case", store.StateAwaitingConfirmation, "хорошо", OutcomeConfirmed, store.StateAwaitingReady},
		{"confirm with surrounding spaces", store.StateAwaitingConfirmation, "  хорошо ", OutcomeRepromptConfirmation, store.StateAwaitingConfirmation},
		{"confirm inside sentence", store.StateAwaitingConfirmation, "ну хорошо", OutcomeRepromptConfirmation, store.StateAwaitingConfirmation},
		{"confirm other text", store.StateAwaitingConfirmation, "что это?", OutcomeRepromptConfirmation, store.StateAwaitingConfirmation},
		{"confirm with ready phrase", store.StateAwaitingConfirmation, "Погнали", OutcomeRepromptConfirmation, store.StateAwaitingConfirmation},
		{"never started behaves as confirmation", "", "хорошо", OutcomeConfirmed, store.StateAwaitingReady},
		{"ready phrase", store.StateAwaitingReady, "погнали", OutcomeReady, store.StateActive},
		{"ready other text", store.StateAwaitingReady, "Хорошо", OutcomeRepromptReady, store.StateAwaitingReady},
		{"active stays active", store.StateActive, "Какое число судьбы?", OutcomeAnswer, store.StateActive},
		{"active with confirmation phrase", store.StateActive, "хорошо", OutcomeAnswer, store.StateActive},
		{"finished stays finished", store.StateFinished, "ещё вопрос", OutcomeFinished, store.StateFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager()
			s := &store.Session{ChatID: 1, State: tt.from}

			outcome, err := m.Advance(s, tt.text)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantState, s.State)
		})
	}
}

func TestAdvanceUnknownState(t *testing.T) {
	m := newManager()
	s := &store.Session{State: "BROKEN"}

	_, err := m.Advance(s, "hi")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionGraph(t *testing.T) {
	m := newManager()
	states := []store.DialogState{
		store.StateAwaitingConfirmation,
		store.StateAwaitingReady,
		store.StateActive,
		store.StateFinished,
	}
	allowed := map[store.DialogState]store.DialogState{
		store.StateAwaitingConfirmation: store.StateAwaitingReady,
		store.StateAwaitingReady:        store.StateActive,
		store.StateActive:               store.StateFinished,
	}

	for _, from := range states {
		for _, to := range states {
			want := allowed[from] == to
			assert.Equal(t, want, m.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.True(t, m.IsTerminal(store.StateFinished))
	assert.False(t, m.IsTerminal(store.StateActive))
}

func TestIllegalTransitionLeavesSessionUntouched(t *testing.T) {
	m := newManager()
	s := &store.Session{State: store.StateAwaitingReady}

	err := m.Finish(s)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, store.StateAwaitingReady, s.State)
}

func TestFinishFromActive(t *testing.T) {
	m := newManager()
	s := &store.Session{State: store.StateActive}

	require.NoError(t, m.Finish(s))
	assert.Equal(t, store.StateFinished, s.State)

	assert.ErrorIs(t, m.Finish(s), ErrInvalidTransition)
}

func TestRestartFromAnyState(t *testing.T) {
	for _, from := range []store.DialogState{
		store.StateAwaitingConfirmation,
		store.StateAwaitingReady,
		store.StateActive,
		store.StateFinished,
	} {
		t.Run(string(from), func(t *testing.T) {
			m := newManager()
			s := &store.Session{
				State:   from,
				Turns:   []store.Turn{{Speaker: store.SpeakerUser, Text: "hi"}},
				Summary: " User: hi",
			}

			m.Restart(s)

			assert.Equal(t, store.StateAwaitingConfirmation, s.State)
			assert.Empty(t, s.Turns)
			assert.Empty(t, s.Summary)
		})
	}
}
