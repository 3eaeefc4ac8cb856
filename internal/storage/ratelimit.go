package storage

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed ratelimit.lua
var rateLimitLua string

var rateLimitScript = redis.NewScript(rateLimitLua)

type rateLimitParams struct {
	window time.Duration
	limit  int
	ttl    time.Duration
}

func (p rateLimitParams) args() []any {
	return []any{
		p.window.Milliseconds(),
		p.limit,
		int(p.ttl.Seconds()),
	}
}

// runRateLimitScript records a hit on key. When the hit is rejected it also
// reports how long until the oldest hit leaves the window.
func runRateLimitScript(ctx context.Context, client redis.Scripter, key string, params rateLimitParams) (RateLimitResult, error) {
	vals, err := rateLimitScript.Run(ctx, client, []string{key}, params.args()...).Int64Slice()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(vals) != 2 {
		return RateLimitResult{}, fmt.Errorf("rate limit script returned %d values, want 2", len(vals))
	}
	return RateLimitResult{
		Allowed:    vals[0] == 1,
		RetryAfter: time.Duration(vals[1]) * time.Millisecond,
	}, nil
}
