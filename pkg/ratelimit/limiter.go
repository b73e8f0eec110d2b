package ratelimit

import (
	"context"
	"time"
)

// Store keeps one fixed-window counter per key.
type Store interface {
	// Incr increases the counter of key and returns the new value and the
	// remaining lifetime of the window. A new window of length window starts
	// when the key doesn't exist or is expired.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)

	// Get returns the current counter of key and the remaining lifetime of the
	// window, or zeros if there is no active window.
	Get(ctx context.Context, key string) (int64, time.Duration, error)
}

type Limiter struct {
	store       Store
	maxAttempts int64
	window      time.Duration
}

func NewLimiter(store Store, maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		store:       store,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

// Allow counts an attempt for key and reports whether it fits in the
// current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, _, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.maxAttempts, nil
}

func (l *Limiter) Remaining(ctx context.Context, key string) (int, error) {
	count, _, err := l.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	if count >= l.maxAttempts {
		return 0, nil
	}

	return int(l.maxAttempts - count), nil
}

// ResetAfter returns the duration until the window of key expires.
func (l *Limiter) ResetAfter(ctx context.Context, key string) (time.Duration, error) {
	_, ttl, err := l.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	return ttl, nil
}
