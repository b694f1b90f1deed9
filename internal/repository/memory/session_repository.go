package memory

import (
	"strconv"

	"ai-consultant-bot/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for the lifetime of the process:
// items never expire and no janitor goroutine is started.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(key(session.ChatID), session, cache.NoExpiration)
}

func (r *SessionRepository) Get(chatID int64) (*store.Session, bool) {
	if x, found := r.cache.Get(key(chatID)); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
