package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Backend = (*MemoryBackend)(nil)

const (
	sweepInterval = time.Minute
	// limiterIdle is how long a client IP may stay quiet before its bucket
	// is dropped. A fresh bucket starts full, so this only forgives bursts.
	limiterIdle = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryBackend keeps rate limits and the token denylist in process. It
// serves single-replica deployments that run without redis.
type MemoryBackend struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	revoked map[string]time.Time

	limit rate.Limit
	burst int

	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryBackend(ratePerSec float64, burst int) *MemoryBackend {
	return newMemoryBackend(ratePerSec, burst, time.Now)
}

func newMemoryBackend(ratePerSec float64, burst int, now func() time.Time) *MemoryBackend {
	m := &MemoryBackend{
		buckets: make(map[string]*bucket),
		revoked: make(map[string]time.Time),
		limit:   rate.Limit(ratePerSec),
		burst:   burst,
		now:     now,
		done:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Allow takes a token from key's bucket. A denied call reports how long
// until the next token, rounded up to whole seconds for Retry-After.
func (m *MemoryBackend) Allow(_ context.Context, key string) (RateLimitResult, error) {
	now := m.now()

	m.mu.Lock()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	m.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return RateLimitResult{RetryAfter: time.Second}, nil
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return RateLimitResult{Allowed: true}, nil
	}
	r.CancelAt(now)

	return RateLimitResult{RetryAfter: max(delay.Round(time.Second), time.Second)}, nil
}

func (m *MemoryBackend) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	m.revoked[jti] = m.now().Add(ttl)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	expiresAt, ok := m.revoked[jti]
	m.mu.Unlock()
	return ok && m.now().Before(expiresAt), nil
}

// Close stops the sweeper. It is safe to call more than once.
func (m *MemoryBackend) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryBackend) Ping(context.Context) error { return nil }

func (m *MemoryBackend) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

// sweep drops expired denylist entries and idle rate limit buckets.
func (m *MemoryBackend) sweep() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for jti, expiresAt := range m.revoked {
		if !now.Before(expiresAt) {
			delete(m.revoked, jti)
		}
	}
	for key, b := range m.buckets {
		if now.Sub(b.lastSeen) > limiterIdle {
			delete(m.buckets, key)
		}
	}
}
