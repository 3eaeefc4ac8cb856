package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type requestIDConfig struct {
	generate     func(*http.Request) string
	trustInbound bool
}

type RequestIDOption func(*requestIDConfig)

// WithRequestIDFunc replaces the random UUID generator.
func WithRequestIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(c *requestIDConfig) { c.generate = fn }
}

// WithInboundRequestID reuses a caller-supplied X-Request-ID when it is a
// valid UUID, so a proxy's ID follows the request into the logs.
func WithInboundRequestID() RequestIDOption {
	return func(c *requestIDConfig) { c.trustInbound = true }
}

func RequestID(opts ...RequestIDOption) Middleware {
	cfg := requestIDConfig{
		generate: func(*http.Request) string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := inboundRequestID(r, cfg.trustInbound)
			if id == "" {
				id = cfg.generate(r)
			}
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(xcontext.SetRequestID(r.Context(), id)))
		})
	}
}

func inboundRequestID(r *http.Request, trust bool) string {
	if !trust {
		return ""
	}
	id := r.Header.Get(xhttp.XRequestID)
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
