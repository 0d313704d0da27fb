// Package cache provides a Redis-backed TTL cache with ETag support.
// An unconfigured cache degrades to a no-op so the API can run without
// Redis in development.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants per cached resource.
const (
	TTLGeocode = 24 * time.Hour   // street addresses do not move
	TTLReps    = 1 * time.Hour    // representative lookups
	TTLStatus  = 5 * time.Minute  // system status
)

// Cache is a Redis-backed TTL cache.
type Cache struct {
	client *redis.Client
	prefix string
}

// New connects to Redis and verifies the connection. An empty URL or
// enabled=false returns a no-op cache.
func New(redisURL string, enabled bool) (*Cache, error) {
	if !enabled || redisURL == "" {
		return &Cache{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, prefix: "civiclens:"}, nil
}

// NewWithClient creates a cache from an existing Redis client. Used by
// tests with miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client, prefix: "civiclens:"}
}

// Enabled reports whether the cache is backed by Redis.
func (c *Cache) Enabled() bool { return c.client != nil }

func (c *Cache) key(k string) string { return c.prefix + k }

// Get retrieves a cached value. A miss, an expired key, and a disabled
// cache all return ok=false.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value with a TTL and returns its ETag.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if c.client == nil {
		return etag
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		// A failed cache write is not worth failing the request over.
		return etag
	}
	return etag
}

// Ping checks if Redis is reachable. A no-op cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Stats returns cache statistics.
func (c *Cache) Stats(ctx context.Context) map[string]any {
	if c.client == nil {
		return map[string]any{"enabled": false}
	}
	keys, _ := c.client.DBSize(ctx).Result()
	return map[string]any{
		"enabled":    true,
		"total_keys": keys,
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if an If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	return ifNoneMatch == etag
}
