package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"time"
)

// RedisLimiter shares the attempt counters across instances. Counters
// use INCR with a TTL applied on the first hit of each window.
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, identifier, action string) error {
	key := "ratelimit:" + action + ":" + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(l.limit) {
		return ErrRateLimited
	}
	return nil
}
