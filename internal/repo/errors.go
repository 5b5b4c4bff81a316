package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnavailable     = errors.New("store unavailable")
)

// wrapStoreErr distinguishes connectivity failures from everything else
// so callers can answer 503 instead of 500.
func wrapStoreErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "server selection") ||
		strings.Contains(err.Error(), "connection refused") {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
