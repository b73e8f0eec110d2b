package ratelimit

import (
	"context"
	"time"

	"github.com/droplabz/backend/pkg/xredis"
)

const redisKeyPrefix = "ratelimit:"

type redisStore struct {
	client xredis.Client
}

// NewRedisStore returns a store shared by every instance connecting to the
// same redis.
func NewRedisStore(client xredis.Client) *redisStore {
	return &redisStore{client: client}
}

func (s *redisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return s.client.IncrWithExpire(ctx, redisKeyPrefix+key, window)
}

func (s *redisStore) Get(ctx context.Context, key string) (int64, time.Duration, error) {
	return s.client.GetWithTTL(ctx, redisKeyPrefix+key)
}
