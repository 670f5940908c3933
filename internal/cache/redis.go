package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// connectTimeout bounds the startup probe of the external store.
const connectTimeout = 5 * time.Second

// redisStore backs the cache with a Redis server.
type redisStore struct {
	client *redis.Client
}

// newRedisStore dials redisURL and verifies the connection with a ping.
func newRedisStore(ctx context.Context, redisURL string) (*redisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = connectTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) TTL(ctx context.Context, key string) (int, error) {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return TTLAbsent, err
	}
	// go-redis passes the -1 (no expiry) and -2 (absent) sentinels
	// through as raw negative durations.
	if d < 0 {
		return int(d), nil
	}
	return int(d / time.Second), nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *redisStore) Close() error {
	return s.client.Close()
}
