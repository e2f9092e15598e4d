package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
)

// MemoryCache implements RecordCache in process memory. Expired entries
// are dropped when read.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	rec       archive.Record
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*archive.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.items, key)
		return nil, nil
	}
	rec := entry.rec
	return &rec, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, rec *archive.Record, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry{rec: *rec, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}
