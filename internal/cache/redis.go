package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "query:"

// RedisCache shares query results between BFF replicas
type RedisCache struct {
	Client *redis.Client
}

var _ QueryCache = (*RedisCache)(nil)

// NewRedisCache stores entries under the query: namespace of client
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

// Backend names the cache in metrics and /health
func (c *RedisCache) Backend() string { return "redis" }

func (c *RedisCache) storageKey(key string) string {
	return redisNamespace + key
}

// Get returns the value for key; a missing key is not an error
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.Client.Get(ctx, c.storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.Client.Set(ctx, c.storageKey(key), value, ttl).Err()
}

// Invalidate deletes key and every key below it
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.Client.Del(ctx, c.storageKey(key)).Err(); err != nil {
		return err
	}

	pattern := globEscaper.Replace(c.storageKey(key)) + ":*"
	iter := c.Client.Scan(ctx, 0, pattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}
	return c.Client.Del(ctx, batch...).Err()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
