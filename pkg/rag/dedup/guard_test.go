package dedup

import (
	"context"
	"testing"
	"time"

	"ai-consultant-bot/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCacheGuard(t *testing.T) {
	g := NewCacheGuard(50 * time.Millisecond)
	ctx := context.Background()

	assert.False(t, g.Seen(ctx, 1, 10))
	assert.True(t, g.Seen(ctx, 1, 10), "redelivery")
	assert.False(t, g.Seen(ctx, 2, 10), "other chat")
	assert.False(t, g.Seen(ctx, 1, 11), "next message")

	time.Sleep(70 * time.Millisecond)
	assert.False(t, g.Seen(ctx, 1, 10), "window elapsed")
}

func TestCacheGuardIgnoresMissingMessageID(t *testing.T) {
	g := NewCacheGuard(time.Minute)

	assert.False(t, g.Seen(context.Background(), 1, 0))
	assert.False(t, g.Seen(context.Background(), 1, 0))
}

func TestRedisGuardFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	g := NewRedisGuard(rdb, time.Second, logger.NewNopLogger())

	assert.False(t, g.Seen(context.Background(), 1, 7))
	assert.False(t, g.Seen(context.Background(), 1, 7))
}

func TestNew(t *testing.T) {
	assert.IsType(t, NoopGuard{}, New(nil, 0, logger.NewNopLogger()))
	assert.IsType(t, &CacheGuard{}, New(nil, time.Second, logger.NewNopLogger()))

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	assert.IsType(t, &RedisGuard{}, New(rdb, time.Second, logger.NewNopLogger()))
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, "dedup:5:42", key(5, 42))
	assert.NotEqual(t, key(5, 42), key(6, 42))
}
