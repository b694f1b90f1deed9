package session

import (
	"sync"
	"testing"
	"time"

	"ai-consultant-bot/internal/repository/memory"
	"ai-consultant-bot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())

	s := m.LoadOrCreate(7, "alice")
	assert.Equal(t, store.StateAwaitingConfirmation, s.State)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, 1, m.Count())

	s.State = store.StateActive
	s.Summary = " User: hi"
	m.Save(s)

	again := m.LoadOrCreate(7, "")
	assert.Same(t, s, again)
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, store.StateActive, again.State)
}

func TestSaveStampsUpdatedAt(t *testing.T) {
	repo := memory.NewSessionRepository()
	m := NewManager(repo)
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return stamp }

	s := m.LoadOrCreate(7, "alice")
	s.State = store.StateFinished
	m.Save(s)

	got, ok := repo.Get(7)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, stamp, got.UpdatedAt)
}

func TestLockSerialisesSameChat(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock(1)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestLockDoesNotBlockOtherChats(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())

	unlock := m.Lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		release := m.Lock(2)
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of chat 2 blocked by chat 1")
	}
}
