package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a SurveyCache shared across instances through Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisClient parses a redis:// URL into a client. It does not dial.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisCache wraps client. Keys are namespaced with prefix.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get returns (nil, false, nil) on a clean miss. Redis errors are returned so
// the caller can log them and treat the lookup as a miss.
func (c *RedisCache) Get(ctx context.Context, fp string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}
	res, err := c.client.Get(ctx, Key(c.prefix, fp)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return res, true, nil
}

// Set stores value with ttl. A non-positive ttl is a no-op.
func (c *RedisCache) Set(ctx context.Context, fp string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, Key(c.prefix, fp), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
