package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryCache is an in-process Cache used when no Redis URL is configured.
// Values are copied on the way in and out, so callers never share the
// cached bytes.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates an empty MemoryCache. Expired entries are swept
// every ten minutes and are never returned before that.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

// Get returns a copy of the value stored under key, or ErrMiss.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	b, _ := v.([]byte)
	return append([]byte(nil), b...), nil
}

// Set stores a copy of value. A ttl of zero or less never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete removes keys; missing keys are ignored.
func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		c.items.Delete(k)
	}
	return nil
}
