package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheOptions represents options for cache operations
type CacheOptions struct {
	// CacheName prefixes every key as CacheName::key and selects the TTL from the client config
	CacheName    string
	Serializer   func(any) ([]byte, error)
	Deserializer func([]byte, any) error
}

// NewCacheOptions creates cache options with JSON serialization
func NewCacheOptions(cacheName string) *CacheOptions {
	return &CacheOptions{
		CacheName:    cacheName,
		Serializer:   json.Marshal,
		Deserializer: json.Unmarshal,
	}
}

// Cache provides typed get/set over a key namespace
type Cache struct {
	client *Client
	opts   *CacheOptions
}

// NewCache creates a new cache instance
func NewCache(client *Client, opts *CacheOptions) *Cache {
	if opts == nil {
		opts = NewCacheOptions("")
	}
	return &Cache{client: client, opts: opts}
}

func (c *Cache) ttl() time.Duration {
	return c.client.config.TTLFor(c.opts.CacheName)
}

// Key constructs the full cache key using CacheName::cacheKey format
func (c *Cache) Key(key string) string {
	if c.opts.CacheName != "" {
		return c.opts.CacheName + "::" + key
	}
	return key
}

// Get retrieves a value from cache and deserializes it into dest.
// found is false when the key does not exist.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, found, err := c.client.GetBytes(ctx, c.Key(key))
	if err != nil || !found {
		return false, err
	}
	if err := c.opts.Deserializer(data, dest); err != nil {
		return false, fmt.Errorf("failed to deserialize %s: %w", c.Key(key), err)
	}
	return true, nil
}

// Set stores a value in cache with serialization
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := c.opts.Serializer(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return c.client.Set(ctx, c.Key(key), data, c.ttl())
}

// SetTx queues the write on a transaction pipeline instead of sending it.
func (c *Cache) SetTx(ctx context.Context, pipe redis.Pipeliner, key string, value any) error {
	data, err := c.opts.Serializer(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	pipe.Set(ctx, c.Key(key), data, c.ttl())
	return nil
}

// Delete removes a value from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.Key(key))
}

// Keys lists the unprefixed keys currently stored under this cache name.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	prefix := c.Key("")
	full, err := ScanKeys(ctx, c.client, prefix+"*")
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, k[len(prefix):])
	}
	return keys, nil
}
