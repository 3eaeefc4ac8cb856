package middleware

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/storage"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

// RateLimit applies per-IP rate limiting.
func RateLimit(limiter storage.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := xhttp.GetRequestIP(r)

			result, err := limiter.Allow(ctx, ip)
			if err != nil {
				xslog.FromContext(ctx).ErrorContext(ctx, "rate limit check failed",
					xslog.ErrorGroup(err),
					xslog.IP(ip),
				)
				xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("rate limit check failed")))
				return
			}

			if !result.Allowed {
				xerrors.WriteError(ctx, w, xerrors.TooManyRequests(
					xerrors.WithMessage("request was throttled"),
					xerrors.WithRetryAfter(result.RetryAfter),
					xerrors.WithReason("ip_rate_limit"),
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
