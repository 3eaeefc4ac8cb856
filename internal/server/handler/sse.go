package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
	go_json "github.com/goccy/go-json"
)

const (
	sseHeartbeatInterval = 30 * time.Second
	sseWriteTimeout      = 45 * time.Second
)

type Stream struct {
	service   notification.Service
	heartbeat time.Duration
}

func NewStream(service notification.Service) *Stream {
	return &Stream{service: service, heartbeat: sseHeartbeatInterval}
}

// HandleStream handles GET /api/notifications/stream requests.
func (h *Stream) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	p, ok := principal(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.WarnContext(ctx, "SSE: flusher not supported")
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, unsubscribe, err := h.service.Subscribe(ctx, p.UserID)
	if err != nil {
		internal(ctx, w, "failed to subscribe", err)
		return
	}
	defer unsubscribe()

	xhttp.SetHeadersEventStream(w)
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	logger.InfoContext(ctx, "SSE connection established")

	rc := http.NewResponseController(w)

	if err := writeSSEEvent(rc, w, flusher, "connected", map[string]any{
		"user_id": p.UserID,
		"time":    time.Now().Format(time.RFC3339),
	}); err != nil {
		logger.ErrorContext(ctx, "failed to send connected event", xslog.Error(err))
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		if ctx.Err() != nil && xcontext.IsShutdownInProgress(ctx) {
			logger.InfoContext(ctx, "SSE graceful shutdown initiated")

			_ = writeSSEEvent(rc, w, flusher, "shutdown", map[string]string{
				"reason": "server-restart",
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}

		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "SSE connection closed by client")
			return

		case n, ok := <-ch:
			if !ok {
				logger.InfoContext(ctx, "notification channel closed")
				return
			}
			if err := writeSSEEvent(rc, w, flusher, "notification", n); err != nil {
				logger.ErrorContext(ctx, "failed to send notification event", xslog.Error(err))
				return
			}

		case t := <-heartbeat.C:
			if err := writeSSEEvent(rc, w, flusher, "heartbeat", map[string]string{
				"time": t.Format(time.RFC3339),
			}); err != nil {
				logger.ErrorContext(ctx, "failed to send heartbeat", xslog.Error(err))
				return
			}
		}
	}
}

func writeSSEEvent(rc *http.ResponseController, w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	payload, err := go_json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
