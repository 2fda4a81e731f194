package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache backed by patrickmn/go-cache.
type MemoryCache struct {
	cache      *gocache.Cache
	defaultTTL time.Duration
	maxSize    int
	hitCount   uint64
	missCount  uint64
}

// NewMemoryCache creates a memory cache with the given default TTL and a
// soft size cap. When the cap is reached, expired items are purged
// before inserting.
func NewMemoryCache(defaultTTL time.Duration, maxSize int) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &MemoryCache{
		cache:      gocache.New(defaultTTL, defaultTTL*2),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
	}
}

// Get retrieves a cached value.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if value, found := m.cache.Get(key); found {
		atomic.AddUint64(&m.hitCount, 1)
		if b, ok := value.([]byte); ok {
			return b, nil
		}
	}
	atomic.AddUint64(&m.missCount, 1)
	return nil, ErrMiss
}

// Set stores a value.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	if m.maxSize > 0 && m.cache.ItemCount() >= m.maxSize {
		m.cache.DeleteExpired()
	}
	m.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a key.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Flush removes every entry and resets counters.
func (m *MemoryCache) Flush(ctx context.Context) error {
	m.cache.Flush()
	atomic.StoreUint64(&m.hitCount, 0)
	atomic.StoreUint64(&m.missCount, 0)
	return nil
}

// Stats returns hit/miss counters.
func (m *MemoryCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&m.hitCount), atomic.LoadUint64(&m.missCount)
}

// ItemCount returns the number of items currently cached.
func (m *MemoryCache) ItemCount() int {
	return m.cache.ItemCount()
}
