package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xslog"
)

// Logger stores base, tagged with the request ID and client IP, in the
// request context. RequestID has to run first for the ID to be present.
func Logger(base *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := []slog.Attr{xslog.RequestIP(r)}
			if id, ok := xcontext.GetRequestID(r.Context()); ok {
				attrs = append(attrs, xslog.RequestID(id))
			}
			ctx := xslog.WithAttrs(xslog.WithLogger(r.Context(), base), attrs...)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
