package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
)

type memoryWindow struct {
	mutex     sync.Mutex
	count     int64
	expiredAt time.Time
}

type memoryStore struct {
	windows *xsync.MapOf[string, *memoryWindow]
	now     func() time.Time
}

// NewMemoryStore returns a process-local store. Expired windows are removed
// by Cleanup.
func NewMemoryStore() *memoryStore {
	return &memoryStore{
		windows: xsync.NewMapOf[*memoryWindow](),
		now:     time.Now,
	}
}

func (s *memoryStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	w, _ := s.windows.LoadOrStore(key, &memoryWindow{})

	w.mutex.Lock()
	defer w.mutex.Unlock()

	now := s.now()
	if !w.expiredAt.After(now) {
		w.count = 0
		w.expiredAt = now.Add(window)
	}

	w.count++
	return w.count, w.expiredAt.Sub(now), nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (int64, time.Duration, error) {
	w, ok := s.windows.Load(key)
	if !ok {
		return 0, 0, nil
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	now := s.now()
	if !w.expiredAt.After(now) {
		return 0, 0, nil
	}

	return w.count, w.expiredAt.Sub(now), nil
}

// Cleanup removes all expired windows.
func (s *memoryStore) Cleanup() {
	now := s.now()
	s.windows.Range(func(key string, w *memoryWindow) bool {
		w.mutex.Lock()
		expired := !w.expiredAt.After(now)
		w.mutex.Unlock()

		if expired {
			s.windows.Delete(key)
		}
		return true
	})
}
