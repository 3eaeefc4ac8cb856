package xhttp

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	XForwardedFor    = "X-Forwarded-For"
	XContentTypeOpts = "X-Content-Type-Options"
	XFrameOpts       = "X-Frame-Options"
	XXSSProtection   = "X-Xss-Protection"
	ReferrerPolicy   = "Referrer-Policy"
	XRateLimitReason = "X-RateLimit-Reason"
	XRequestID       = "X-Request-ID"
)

const (
	Accept          = "Accept"
	AcceptEncoding  = "Accept-Encoding"
	Authorization   = "Authorization"
	CacheControl    = "Cache-Control"
	Connection      = "Connection"
	ContentEncoding = "Content-Encoding"
	ContentLength   = "Content-Length"
	ContentType     = "Content-Type"
	RetryAfter      = "Retry-After"
	UserAgent       = "User-Agent"
	Vary            = "Vary"
)

const (
	ApplicationJSON = "application/json"
	TextEventStream = "text/event-stream"
	bearerPrefix    = "Bearer "
	keepAlive       = "keep-alive"
	noCache         = "no-cache, no-transform"
)

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	w.Header().Set(XRequestID, requestID)
}

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, ApplicationJSON)
}

func SetHeaderRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	retryAfterSeconds := int(retryAfter.Seconds())
	w.Header().Set(RetryAfter, fmt.Sprintf("%d", retryAfterSeconds))
}

// SetHeadersEventStream prepares w for a server-sent event stream.
func SetHeadersEventStream(w http.ResponseWriter) {
	h := w.Header()
	h.Set(ContentType, TextEventStream)
	h.Set(CacheControl, noCache)
	h.Set(Connection, keepAlive)
}

// GetBearerToken extracts the token from an "Authorization: Bearer" header.
func GetBearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get(Authorization)
	if len(auth) <= len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(bearerPrefix):])
	return token, token != ""
}

func SetBearerToken(r *http.Request, token string) {
	r.Header.Set(Authorization, bearerPrefix+token)
}
