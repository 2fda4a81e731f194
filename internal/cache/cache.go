// Package cache provides an injectable key-value cache abstraction with
// TTL eviction, with in-memory and Redis backed implementations.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indicates the key was not present (or had expired).
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key-value store with per-entry TTL. Callers
// own serialization; implementations own eviction.
type Cache interface {
	// Get retrieves the value for key, returning ErrMiss when absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the given TTL; ttl <= 0 uses the
	// implementation default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Flush removes every entry
	Flush(ctx context.Context) error

	// Stats returns hit/miss counters since creation
	Stats() (hits, misses uint64)
}

// HitRatio computes the hit ratio from a cache's counters.
func HitRatio(c Cache) float64 {
	hits, misses := c.Stats()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
