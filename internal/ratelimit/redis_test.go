package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, limit, window), mr
}

func TestRedisLimiterWindow(t *testing.T) {
	l, mr := newRedisLimiter(t, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "1.2.3.4", "login"))
	}
	assert.ErrorIs(t, l.Allow(ctx, "1.2.3.4", "login"), ErrRateLimited)

	mr.FastForward(61 * time.Second)
	assert.NoError(t, l.Allow(ctx, "1.2.3.4", "login"))
}

func TestRedisLimiterPerActionKeys(t *testing.T) {
	l, _ := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "ip", "login"))
	assert.ErrorIs(t, l.Allow(ctx, "ip", "login"), ErrRateLimited)
	assert.NoError(t, l.Allow(ctx, "ip", "register"))
}

func TestRedisLimiterBackendDown(t *testing.T) {
	l, mr := newRedisLimiter(t, 5, time.Minute)
	mr.Close()

	err := l.Allow(context.Background(), "ip", "login")
	assert.ErrorIs(t, err, ErrUnavailable)
}
