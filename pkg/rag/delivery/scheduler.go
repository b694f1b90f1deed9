package delivery

import (
	"sync"
	"time"
)

// FollowUpScheduler runs at most one deferred task per chat.
type FollowUpScheduler struct {
	mu      sync.Mutex
	timers  map[int64]*time.Timer
	running sync.WaitGroup
	stopped bool
}

func NewFollowUpScheduler() *FollowUpScheduler {
	return &FollowUpScheduler{timers: make(map[int64]*time.Timer)}
}

// Schedule replaces any pending task for the chat.
func (s *FollowUpScheduler) Schedule(chatID int64, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if t, ok := s.timers[chatID]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[chatID] != timer || s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.timers, chatID)
		s.running.Add(1)
		s.mu.Unlock()

		defer s.running.Done()
		fn()
	})
	s.timers[chatID] = timer
}

// Cancel reports whether a pending task was removed.
func (s *FollowUpScheduler) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[chatID]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, chatID)
	return true
}

func (s *FollowUpScheduler) Pending(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[chatID]
	return ok
}

// Stop cancels every pending task and waits for the ones already running.
func (s *FollowUpScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.running.Wait()
}
