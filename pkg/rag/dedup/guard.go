// Package dedup drops messages the transport delivers more than once.
package dedup

import (
	"context"
	"strconv"
	"time"

	"ai-consultant-bot/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Guard reports whether the message was already seen inside the window.
// Messages are identified by chat and transport message id, so a user
// repeating the same text is never treated as a duplicate.
// Every implementation fails open: on doubt the message is processed.
type Guard interface {
	Seen(ctx context.Context, chatID int64, messageID int) bool
}

func key(chatID int64, messageID int) string {
	return "dedup:" + strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(messageID)
}

// RedisGuard shares the window across bot replicas.
type RedisGuard struct {
	rdb    *redis.Client
	window time.Duration
	logger logger.ILogger
}

func NewRedisGuard(rdb *redis.Client, window time.Duration, logger logger.ILogger) *RedisGuard {
	return &RedisGuard{rdb: rdb, window: window, logger: logger}
}

func (g *RedisGuard) Seen(ctx context.Context, chatID int64, messageID int) bool {
	if messageID == 0 {
		return false
	}
	fresh, err := g.rdb.SetNX(ctx, key(chatID, messageID), 1, g.window).Result()
	if err != nil {
		g.logger.Warn("DEDUP", "Redis unavailable, letting message through", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		return false
	}
	return !fresh
}

// CacheGuard is the single-process fallback.
type CacheGuard struct {
	cache  *cache.Cache
	window time.Duration
}

func NewCacheGuard(window time.Duration) *CacheGuard {
	cleanup := window * 10
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &CacheGuard{cache: cache.New(window, cleanup), window: window}
}

func (g *CacheGuard) Seen(ctx context.Context, chatID int64, messageID int) bool {
	if messageID == 0 {
		return false
	}
	// Add fails when an unexpired entry exists.
	return g.cache.Add(key(chatID, messageID), struct{}{}, g.window) != nil
}

// NoopGuard never reports duplicates.
type NoopGuard struct{}

func (NoopGuard) Seen(context.Context, int64, int) bool { return false }

// New picks the redis guard when a client is given, the in-process one otherwise.
// A non-positive window disables deduplication.
func New(rdb *redis.Client, window time.Duration, logger logger.ILogger) Guard {
	switch {
	case window <= 0:
		return NoopGuard{}
	case rdb != nil:
		return NewRedisGuard(rdb, window, logger)
	default:
		return NewCacheGuard(window)
	}
}
