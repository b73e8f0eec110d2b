package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(maxAttempts int, window time.Duration) (*Limiter, *memoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now
	return NewLimiter(store, maxAttempts, window), store, clock
}

func TestLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	limiter, _, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)

	// Other keys have their own window.
	ok, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(time.Minute)
	ok, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLimiter_RemainingAndResetAfter(t *testing.T) {
	ctx := context.Background()
	limiter, _, clock := newTestLimiter(2, time.Minute)

	remaining, err := limiter.Remaining(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, 2, remaining)

	reset, err := limiter.ResetAfter(ctx, "key")
	require.NoError(t, err)
	require.Zero(t, reset)

	_, err = limiter.Allow(ctx, "key")
	require.NoError(t, err)
	clock.Advance(20 * time.Second)

	remaining, err = limiter.Remaining(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, 1, remaining)

	reset, err = limiter.ResetAfter(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, 40*time.Second, reset)

	_, err = limiter.Allow(ctx, "key")
	require.NoError(t, err)
	_, err = limiter.Allow(ctx, "key")
	require.NoError(t, err)

	remaining, err = limiter.Remaining(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestLimiter_Concurrent(t *testing.T) {
	ctx := context.Background()
	limiter, _, _ := newTestLimiter(10, time.Minute)

	var mutex sync.Mutex
	allowed := 0

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := limiter.Allow(ctx, "key")
			require.NoError(t, err)
			if ok {
				mutex.Lock()
				allowed++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, allowed)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	_, store, clock := newTestLimiter(1, time.Minute)

	_, _, err := store.Incr(ctx, "old", time.Minute)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, _, err = store.Incr(ctx, "new", time.Minute)
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	store.Cleanup()

	_, ok := store.windows.Load("old")
	require.False(t, ok)
	_, ok = store.windows.Load("new")
	require.True(t, ok)
}
