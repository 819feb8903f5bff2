package astronomy

import (
	"sync"
	"time"
)

const (
	// DefaultTTL matches the upstream data cadence: positions for a fixed
	// day do not change, but a stale entry older than two hours is
	// refetched.
	DefaultTTL = 2 * time.Hour

	// DefaultMaxEntries caps the cache. Normal traffic produces one entry
	// per calendar day, so the cap only matters if the date range ever
	// varies more broadly.
	DefaultMaxEntries = 64
)

type cacheEntry struct {
	payload   *PositionsPayload
	fetchedAt time.Time
}

// Cache is a bounded TTL cache for positions payloads. It is created once
// at process start and shared by all requests; a single mutex guards the
// map. Two concurrent misses may both fetch and both write, which is fine:
// they converge to the same value.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry

	now func() time.Time // swappable in tests
}

// NewCache creates a cache with the given TTL and size cap.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
	}
}

// Get returns the cached payload for key if it is younger than the TTL.
func (c *Cache) Get(key string) (*PositionsPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.payload, true
}

// Put stores a payload under key, evicting to stay within the cap:
// expired entries first, then the oldest one.
func (c *Cache) Put(key string, payload *PositionsPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOldestLocked()
		}
	}

	c.entries[key] = cacheEntry{payload: payload, fetchedAt: now}
}

// Len reports the number of entries currently held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.fetchedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.fetchedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.fetchedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
