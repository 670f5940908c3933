// Package cache provides the TTL key-value store shared by the domain
// services: Redis when reachable, with a permanent in-process fallback
// when the initial connection fails.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// keyPrefix namespaces every key before it reaches the backing store.
const keyPrefix = "bmkg:"

// TTLAbsent is the remaining-TTL sentinel for a key that does not exist,
// matching the Redis TTL command.
const TTLAbsent = -2

// Store is the minimal contract a backing store must satisfy.
type Store interface {
	// Get returns the value for key, reporting false when absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key if present.
	Delete(ctx context.Context, key string) error

	// TTL returns the remaining lifetime in whole seconds, or TTLAbsent
	// when the key does not exist.
	TTL(ctx context.Context, key string) (int, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// Cache namespaces keys and fronts whichever Store was selected at
// startup. One instance is shared by every domain service.
type Cache struct {
	store    Store
	fallback bool
	logger   *slog.Logger
}

// New connects to Redis at redisURL. If the connection cannot be
// established the cache switches to an in-process store for the rest of
// the process lifetime; the external store is not re-probed after a
// failed connect.
func New(ctx context.Context, redisURL string, logger *slog.Logger) *Cache {
	store, err := newRedisStore(ctx, redisURL)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "error", err)
		return &Cache{store: NewMemoryStore(), fallback: true, logger: logger}
	}
	logger.Info("connected to redis")
	return &Cache{store: store, logger: logger}
}

// NewWithStore wraps an explicit backing store. Used by tests and by
// callers that already decided on a backend.
func NewWithStore(store Store, fallback bool, logger *slog.Logger) *Cache {
	return &Cache{store: store, fallback: fallback, logger: logger}
}

func (c *Cache) key(key string) string {
	return keyPrefix + key
}

// Get returns the cached value for key, reporting false when absent.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	return c.store.Get(ctx, c.key(key))
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.store.Set(ctx, c.key(key), value, ttl)
}

// Delete removes key if present.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.key(key))
}

// TTL returns the remaining lifetime of key in whole seconds, or
// TTLAbsent when the key does not exist.
func (c *Cache) TTL(ctx context.Context, key string) (int, error) {
	return c.store.TTL(ctx, c.key(key))
}

// Healthy reports whether the active backend answers a ping.
func (c *Cache) Healthy(ctx context.Context) bool {
	return c.store.Ping(ctx) == nil
}

// UsingFallback reports whether the in-process store is active.
func (c *Cache) UsingFallback() bool {
	return c.fallback
}
