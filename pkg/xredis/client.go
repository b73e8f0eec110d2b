package xredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type Client interface {
	Del(ctx context.Context, key ...string) error

	// Single object
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObj(ctx context.Context, key string, v any) error

	// Counter
	IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
	GetWithTTL(ctx context.Context, key string) (int64, time.Duration, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

// GetObj returns redis.Nil if the key doesn't exist.
func (c *client) GetObj(ctx context.Context, key string, v any) error {
	b, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

var incrWithExpireScript = redis.NewScript(`
local v = redis.call("INCR", KEYS[1])
if v == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {v, redis.call("PTTL", KEYS[1])}
`)

// IncrWithExpire increases the counter at key and sets its expiration only
// when the key is created. It returns the new value and the remaining ttl.
func (c *client) IncrWithExpire(
	ctx context.Context, key string, ttl time.Duration,
) (int64, time.Duration, error) {
	result, err := incrWithExpireScript.Run(ctx, c.redisClient, []string{key}, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}

	return result[0], time.Duration(result[1]) * time.Millisecond, nil
}

// GetWithTTL returns the counter at key and its remaining ttl, or zeros if the
// key doesn't exist.
func (c *client) GetWithTTL(ctx context.Context, key string) (int64, time.Duration, error) {
	pipe := c.redisClient.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, err
	}

	if getCmd.Err() == redis.Nil {
		return 0, 0, nil
	}

	value, err := getCmd.Int64()
	if err != nil {
		return 0, 0, err
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = 0
	}

	return value, ttl, nil
}
