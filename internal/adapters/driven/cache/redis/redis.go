// Package redis provides a result cache adapter backed by Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// DefaultAddr is the standard local Redis address.
const DefaultAddr = "localhost:6379"

// keyPrefix namespaces this application's entries on a shared instance.
const keyPrefix = "ragpipe:"

// Config holds configuration for the Redis cache.
type Config struct {
	// Addr is the host:port of the Redis instance (default: localhost:6379).
	Addr string

	// Password authenticates when the instance requires it.
	Password string

	// DB selects the Redis logical database.
	DB int
}

// Cache is a Redis-backed cache.
type Cache struct {
	client *redis.Client
}

// NewCache creates a Redis cache client. The connection is validated
// lazily; use Ping to probe reachability.
func NewCache(cfg Config) *Cache {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Get returns the cached value for key, or domain.ErrNotFound on miss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = driven.DefaultCacheTTL
	}
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping validates the instance is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (c *Cache) Close() error {
	return c.client.Close()
}
