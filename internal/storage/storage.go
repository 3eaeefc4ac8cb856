package storage

import (
	"context"
	"errors"
	"time"

	"github.com/garrettladley/moyo/internal/model"
)

var ErrNotFound = errors.New("not found")

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

// TokenDenylist tracks refresh tokens that were rotated or logged out.
type TokenDenylist interface {
	// Revoke denylists a token id until ttl elapses. A non-positive ttl is a
	// no-op since the token has already expired.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Backend interface {
	RateLimiter
	TokenDenylist

	Close() error

	Ping(ctx context.Context) error
}

// Broker fans notifications out to live subscribers of a user.
type Broker interface {
	Publish(ctx context.Context, userID int64, n model.NotificationLog) error

	// Subscribe returns a channel that receives notifications for a user.
	// The returned function should be called to unsubscribe.
	Subscribe(ctx context.Context, userID int64) (<-chan model.NotificationLog, func(), error)
}
