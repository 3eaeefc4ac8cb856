package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garrettladley/moyo/internal/storage"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type stubLimiter struct {
	result storage.RateLimitResult
	err    error
}

func (s stubLimiter) Allow(context.Context, string) (storage.RateLimitResult, error) {
	return s.result, s.err
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		limiter        stubLimiter
		wantStatus     int
		wantRetryAfter string
	}{
		{name: "allowed", limiter: stubLimiter{result: storage.RateLimitResult{Allowed: true}}, wantStatus: http.StatusOK},
		{name: "throttled", limiter: stubLimiter{result: storage.RateLimitResult{RetryAfter: 2 * time.Second}}, wantStatus: http.StatusTooManyRequests, wantRetryAfter: "2"},
		{name: "backend down", limiter: stubLimiter{err: errors.New("redis: connection refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
			req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/api/token", nil)
			rec := httptest.NewRecorder()
			RateLimit(tt.limiter)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("RateLimit() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get(xhttp.RetryAfter); got != tt.wantRetryAfter {
				t.Errorf("Retry-After = %q, want %q", got, tt.wantRetryAfter)
			}
		})
	}
}
