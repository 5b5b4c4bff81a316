// Package ratelimit guards sensitive endpoints with per-identifier,
// per-action attempt counting over a fixed window. The in-memory
// limiter covers a single process; the Redis limiter backs the same
// interface with a shared counter store for multi-instance deployments.
package ratelimit

import (
	"context"
	"errors"
)

var (
	ErrRateLimited = errors.New("too many attempts")
	ErrUnavailable = errors.New("rate limit backend unavailable")
)

type Limiter interface {
	// Allow records one attempt for (identifier, action) and returns
	// ErrRateLimited when the budget for the current window is spent.
	// A rejected call does not itself count as an attempt.
	Allow(ctx context.Context, identifier, action string) error
}
