package middleware

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/xcontext"
)

// ShutdownContext marks requests that arrive after the server's base
// context is done, so long-lived handlers can tell a shutdown from a client
// disconnect.
func ShutdownContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctx := r.Context(); ctx.Err() != nil && !xcontext.IsShutdownInProgress(ctx) {
			r = r.WithContext(xcontext.SetShutdownInProgress(ctx, true))
		}
		next.ServeHTTP(w, r)
	})
}
