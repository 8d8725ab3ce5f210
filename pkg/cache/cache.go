// Package cache provides the response cache used by the HTTP layer.
// Entries expire by TTL only; Clear is the single explicit invalidation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry owned by this cache and reports how many were removed.
	Clear(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
