package session

import (
	"sync"
	"time"

	"ai-consultant-bot/internal/repository/memory"
	"ai-consultant-bot/pkg/store"
)

// Manager is the process-wide session store. Callers take Lock(chatID) around
// the read-modify-write of a turn; sessions of other chats are never blocked.
type Manager struct {
	sessionRepo *memory.SessionRepository

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
	now   func() time.Time
}

// NewManager creates a new session manager
func NewManager(sessionRepo *memory.SessionRepository) *Manager {
	return &Manager{
		sessionRepo: sessionRepo,
		locks:       make(map[int64]*sync.Mutex),
		now:         time.Now,
	}
}

// Lock acquires the exclusion scope of one chat and returns its release func.
func (m *Manager) Lock(chatID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[chatID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// LoadOrCreate returns the chat session, creating it in AWAITING_CONFIRMATION
// on first contact.
func (m *Manager) LoadOrCreate(chatID int64, username string) *store.Session {
	if s, found := m.sessionRepo.Get(chatID); found {
		if username != "" {
			s.Username = username
		}
		return s
	}
	s := &store.Session{
		ChatID:    chatID,
		Username:  username,
		State:     store.StateAwaitingConfirmation,
		UpdatedAt: m.now(),
	}
	m.sessionRepo.Save(s)
	return s
}

// Save persists session state
func (m *Manager) Save(s *store.Session) {
	s.UpdatedAt = m.now()
	m.sessionRepo.Save(s)
}

func (m *Manager) Count() int {
	return m.sessionRepo.Count()
}
