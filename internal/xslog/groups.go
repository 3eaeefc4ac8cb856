package xslog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/moyo/internal/version"
	"github.com/garrettladley/moyo/internal/xcontext"
)

const (
	groupRequest  = "request"
	groupResponse = "response"
	groupError    = "error"
	groupUser     = "user"
)

const (
	keyID         = "id"
	keyAdmin      = "admin"
	keyHost       = "host"
	keyUserAgent  = "user_agent"
	keyClient     = "client_version"
	keyQuery      = "query"
	keyDurationMS = "duration_ms"
	keyMessage    = "message"
	keyType       = "type"
	keyValue      = "value"
)

// RequestGroup describes r. The client version is included because older
// CLI builds are the usual source of 426 responses.
func RequestGroup(r *http.Request) slog.Attr {
	attrs := []slog.Attr{
		RequestMethod(r),
		RequestPath(r),
		RequestIP(r),
		slog.String(keyHost, r.Host),
		slog.String(keyUserAgent, r.UserAgent()),
	}
	if v := r.Header.Get(version.Header); v != "" {
		attrs = append(attrs, slog.String(keyClient, v))
	}
	if id, ok := xcontext.GetRequestID(r.Context()); ok {
		attrs = append(attrs, slog.String(keyID, id))
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String(keyQuery, r.URL.RawQuery))
	}
	return slog.GroupAttrs(groupRequest, attrs...)
}

func ResponseGroup(status int, duration time.Duration) slog.Attr {
	return slog.GroupAttrs(groupResponse,
		HTTPStatus(status),
		Duration(duration),
		slog.Int64(keyDurationMS, duration.Milliseconds()),
	)
}

func ErrorGroup(err error) slog.Attr {
	if err == nil {
		return slog.Group(groupError)
	}
	return slog.GroupAttrs(groupError,
		slog.String(keyMessage, err.Error()),
		slog.String(keyType, fmt.Sprintf("%T", err)),
	)
}

// ErrorGroupWithStack describes a recovered panic value.
func ErrorGroupWithStack(v any) slog.Attr {
	return slog.GroupAttrs(groupError,
		slog.Any(keyValue, v),
		slog.String(keyType, fmt.Sprintf("%T", v)),
		Stack(),
	)
}

// PrincipalGroup identifies the authenticated caller.
func PrincipalGroup(p xcontext.Principal) slog.Attr {
	return slog.GroupAttrs(groupUser,
		slog.Int64(keyID, p.UserID),
		slog.Bool(keyAdmin, p.IsAdmin),
	)
}
