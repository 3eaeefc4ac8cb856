package middleware

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/xhttp"
)

// securityHeaders apply to every response. Cache-Control is a default the
// event stream handler replaces.
var securityHeaders = [...][2]string{
	{xhttp.XContentTypeOpts, "nosniff"},
	{xhttp.XFrameOpts, "DENY"},
	{xhttp.XXSSProtection, "0"},
	{xhttp.ReferrerPolicy, "no-referrer"},
	{xhttp.CacheControl, "no-store"},
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range securityHeaders {
			h.Set(kv[0], kv[1])
		}
		next.ServeHTTP(w, r)
	})
}
