package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count int
	reset time.Time
}

// MemoryLimiter is a fixed-window counter held in process memory.
// Entries expire lazily when read after their window ends.
type MemoryLimiter struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	items map[string]*memoryEntry

	now func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		items:  make(map[string]*memoryEntry),
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, identifier, action string) error {
	key := identifier + ":" + action
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.items[key]
	if !ok || now.After(entry.reset) {
		entry = &memoryEntry{reset: now.Add(l.window)}
		l.items[key] = entry
	}

	if entry.count >= l.limit {
		return ErrRateLimited
	}
	entry.count++
	return nil
}
