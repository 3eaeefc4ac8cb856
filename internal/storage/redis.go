package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Backend = (*RedisBackend)(nil)

const (
	defaultKeyPrefix   = "moyo:"
	defaultRateWindow  = time.Second
	rateLimitNamespace = "ratelimit:"
	denylistNamespace  = "denylist:"
)

type RedisConfig struct {
	Client *redis.Client
	// Limit is how many requests a key may make per Window.
	Limit  int
	Window time.Duration
	// KeyPrefix namespaces every key so one redis can serve several
	// deployments. Defaults to "moyo:".
	KeyPrefix string
}

// RedisBackend shares rate limits and the token denylist across server
// replicas.
type RedisBackend struct {
	client *redis.Client
	prefix string
	rate   rateLimitParams
}

func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", cfg.Limit)
	}
	window := cfg.Window
	if window <= 0 {
		window = defaultRateWindow
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisBackend{
		client: cfg.Client,
		prefix: prefix,
		rate: rateLimitParams{
			window: window,
			limit:  cfg.Limit,
			ttl:    window + time.Second,
		},
	}, nil
}

func (r *RedisBackend) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	return runRateLimitScript(ctx, r.client, r.prefix+rateLimitNamespace+key, r.rate)
}

func (r *RedisBackend) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.denylistKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisBackend) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.denylistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return n > 0, nil
}

func (r *RedisBackend) denylistKey(jti string) string {
	return r.prefix + denylistNamespace + jti
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
