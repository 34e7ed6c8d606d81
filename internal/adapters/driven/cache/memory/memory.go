// Package memory provides an in-process cache with TTL eviction, used when
// no Redis instance is configured. Expired entries are dropped lazily on
// read and swept opportunistically on write.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// sweepEvery bounds how often writes trigger a full expiry sweep.
const sweepEvery = 256

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is an in-memory key/value store with per-entry TTL. Safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	writes  int
	now     func() time.Time
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or domain.ErrNotFound on miss or
// expiry.
func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", domain.ErrNotFound
	}
	return e.value, nil
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = driven.DefaultCacheTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}

	c.writes++
	if c.writes%sweepEvery == 0 {
		c.sweep()
	}
	return nil
}

// Ping always succeeds.
func (c *Cache) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

// sweep removes expired entries. Caller holds the lock.
func (c *Cache) sweep() {
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
