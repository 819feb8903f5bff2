package astronomy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetWithinTTL(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewCache(2*time.Hour, 8)
	c.now = func() time.Time { return now }

	payload := &PositionsPayload{}
	c.Put("k", payload)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, payload, got)

	// One minute before expiry: still served.
	now = now.Add(2*time.Hour - time.Minute)
	_, ok = c.Get("k")
	assert.True(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewCache(2*time.Hour, 8)
	c.now = func() time.Time { return now }

	c.Put("k", &PositionsPayload{})

	now = now.Add(2 * time.Hour)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCachePutReplaces(t *testing.T) {
	c := NewCache(time.Hour, 8)

	first := &PositionsPayload{}
	second := &PositionsPayload{}
	c.Put("k", first)
	c.Put("k", second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, c.Len())
}

func TestCacheCapEvictsExpiredFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewCache(time.Hour, 2)
	c.now = func() time.Time { return now }

	c.Put("old", &PositionsPayload{})
	now = now.Add(2 * time.Hour) // "old" is now expired
	c.Put("fresh", &PositionsPayload{})

	c.Put("newest", &PositionsPayload{})
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("old")
	assert.False(t, ok)
	_, ok = c.Get("fresh")
	assert.True(t, ok)
	_, ok = c.Get("newest")
	assert.True(t, ok)
}

func TestCacheCapEvictsOldest(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewCache(24*time.Hour, 3)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), &PositionsPayload{})
		now = now.Add(time.Minute)
	}

	c.Put("k3", &PositionsPayload{})
	assert.Equal(t, 3, c.Len())

	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get("k3")
	assert.True(t, ok)
}
