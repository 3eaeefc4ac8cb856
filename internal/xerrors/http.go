package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

type errorResponse struct {
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError logs err and writes it as JSON. Errors that are not an *Error
// become a 500 without leaking their text to the caller.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal(WithCause(err))
	}

	logError(ctx, appErr)

	xhttp.SetHeaderContentTypeApplicationJSON(w)
	if rl := appErr.RateLimit; rl != nil {
		if rl.RetryAfter > 0 {
			xhttp.SetHeaderRetryAfter(w, rl.RetryAfter)
		}
		if rl.Reason != "" {
			w.Header().Set(xhttp.XRateLimitReason, rl.Reason)
		}
	}
	w.WriteHeader(appErr.StatusCode)

	resp := errorResponse{Message: appErr.Message}
	if appErr.Validation != nil {
		resp.Fields = appErr.Validation.Fields
	}
	if id, ok := xcontext.GetRequestID(ctx); ok {
		resp.RequestID = id
	}
	_ = go_json.NewEncoder(w).Encode(resp)
}

func logError(ctx context.Context, err *Error) {
	attrs := []slog.Attr{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}
	if rl := err.RateLimit; rl != nil {
		attrs = append(attrs, slog.Group("rate_limit",
			slog.Duration("retry_after", rl.RetryAfter),
			slog.String("reason", rl.Reason),
		))
	}
	if err.Validation != nil {
		attrs = append(attrs, slog.Any("fields", err.Validation.Fields))
	}

	level, msg := slog.LevelInfo, "error response"
	switch {
	case err.StatusCode >= http.StatusInternalServerError:
		level, msg = slog.LevelError, "server error"
	case err.StatusCode >= http.StatusBadRequest:
		level, msg = slog.LevelWarn, "client error"
	}
	xslog.FromContext(ctx).LogAttrs(ctx, level, msg, attrs...)
}
