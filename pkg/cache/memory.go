package cache

import (
	"context"
	"sync"
	"time"
)

// minSweepSize is the entry count at which Set first sweeps expired entries.
const minSweepSize = 1024

type memoryEntry struct {
	value  []byte
	expiry time.Time
}

// MemoryCache keeps entries in process memory.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	sweepSize int
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:   make(map[string]memoryEntry),
		now:       time.Now,
		sweepSize: minSweepSize,
	}
}

// Get returns a copy of the stored value when present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiry.IsZero() && !c.now().Before(e.expiry) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores value for ttl; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl > 0 {
		e.expiry = c.now().Add(ttl)
	}
	c.entries[key] = e
	if len(c.entries) >= c.sweepSize {
		c.sweepLocked()
	}
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]memoryEntry)
	c.sweepSize = minSweepSize
	return n, nil
}

// Ping always succeeds.
func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}

// sweepLocked evicts expired entries, then moves the next sweep to twice
// the surviving size so sweeps stay amortized over inserts.
func (c *MemoryCache) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if !e.expiry.IsZero() && !now.Before(e.expiry) {
			delete(c.entries, k)
		}
	}
	c.sweepSize = max(minSweepSize, 2*len(c.entries))
}
