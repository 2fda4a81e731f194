package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 100)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))

	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 100)

	_, err := c.Get(ctx, "absent")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 100)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "key")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 100)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))
	require.NoError(t, c.Delete(ctx, "key"))

	_, err := c.Get(ctx, "key")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestMemoryCacheStats(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 100)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))
	_, _ = c.Get(ctx, "key")
	_, _ = c.Get(ctx, "missing")

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, HitRatio(c), 1e-9)
}

func TestMemoryCacheFlushResetsStats(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 100)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))
	_, _ = c.Get(ctx, "key")
	require.NoError(t, c.Flush(ctx))

	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, c.ItemCount())
}
