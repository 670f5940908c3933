// Package service implements the read-through caching operations over
// the BMKG upstream feeds.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/observability"
)

// Fetcher is the outbound HTTP contract the services depend on.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// Meta describes how a response was produced: when, and how long it
// remains cached.
type Meta struct {
	FetchedAt time.Time `json:"fetched_at"`
	CacheTTL  int       `json:"cache_ttl"`
}

// readThrough is the fetch-or-cache sequence shared by every operation.
// On a hit it returns the cached payload with the remaining store TTL
// (or the configured TTL when the store cannot report one). On a miss it
// runs fetch over the wire, normalizes the body through parse, stores
// the result under key, and reports the configured TTL. The upstream
// counters and duration histogram cover the transport call only; a body
// that fails to parse still counts as a successful upstream request.
// Cache read errors degrade to a miss; cache write errors are logged and
// ignored.
func readThrough(
	ctx context.Context,
	c *cache.Cache,
	metrics *observability.Metrics,
	logger *slog.Logger,
	domainLabel, key string,
	ttl time.Duration,
	fetch func(ctx context.Context) ([]byte, error),
	parse func(body []byte) (string, error),
) (string, Meta, error) {
	configuredTTL := int(ttl / time.Second)

	payload, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
		ok = false
	}
	if ok {
		metrics.CacheLookups.WithLabelValues(domainLabel, "hit").Inc()
		remaining, err := c.TTL(ctx, key)
		if err != nil || remaining < 0 {
			remaining = configuredTTL
		}
		return payload, Meta{FetchedAt: domain.Now(), CacheTTL: remaining}, nil
	}
	metrics.CacheLookups.WithLabelValues(domainLabel, "miss").Inc()

	start := time.Now()
	body, err := fetch(ctx)
	metrics.UpstreamDuration.WithLabelValues(domainLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(domainLabel, "error").Inc()
		return "", Meta{}, err
	}
	metrics.UpstreamRequests.WithLabelValues(domainLabel, "success").Inc()

	payload, err = parse(body)
	if err != nil {
		return "", Meta{}, err
	}

	if err := c.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
	return payload, Meta{FetchedAt: domain.Now(), CacheTTL: configuredTTL}, nil
}
