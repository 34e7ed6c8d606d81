package driven

import (
	"context"
	"time"
)

// DefaultCacheTTL is how long cached search responses live.
const DefaultCacheTTL = time.Hour

// Cache is a shared key/value store with TTL eviction. Entries are derived,
// reconstructable data, so last-writer-wins on key collision is acceptable.
//
// Absence of a working cache must never affect correctness: call sites
// treat every error identically to a miss.
type Cache interface {
	// Get returns the cached value for key, or domain.ErrNotFound on miss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Ping validates the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
