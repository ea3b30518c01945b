// Package ttlcache provides a thread-safe in-memory key-value store with
// per-entry expiry. It fronts all upstream fetches in the trigger service.
//
// The cache is strictly cache-aside: it never populates itself. Callers
// look up a key, fetch upstream on a miss, and store the result. Expired
// entries are dropped lazily on read; there is no background sweep.
package ttlcache

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations to enable testing
// with a controlled clock.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL key-value store safe for concurrent readers and writers.
// Entries are immutable once stored; a Set for an existing key replaces
// the entry wholesale.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   Clock
}

// New creates an empty cache. A nil clock falls back to the system clock.
func New(clock Clock) *Cache {
	if clock == nil {
		clock = &SystemClock{}
	}
	return &Cache{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

// Get returns the value stored under key, or ok=false when the key is
// absent or its TTL has elapsed. An expired entry is removed on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry between the two lock acquisitions.
		if cur, still := c.entries[key]; still && c.clock.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
// Intended for health reporting.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
