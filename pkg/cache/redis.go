package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a Redis server. It is the server's shared
// cache; every key is stored under prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects lazily to the server described by opts.
func NewRedisCache(opts *redis.Options, prefix string) *RedisCache {
	return &RedisCache{client: redis.NewClient(opts), prefix: prefix}
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: redis ping: %v", ErrNetwork, err))
	}
	return nil
}

// Get retrieves a value from the cache. Connection failures are returned as
// retryable ErrNetwork errors.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(fmt.Errorf("%w: redis get: %v", ErrNetwork, err))
	}
	return data, true, nil
}

// Set stores a value in the cache. A non-positive ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: redis set: %v", ErrNetwork, err))
	}
	return nil
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return Retryable(fmt.Errorf("%w: redis del: %v", ErrNetwork, err))
	}
	return nil
}

// Close closes the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
