package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/garrettladley/moyo/internal/version"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	checks map[string]Pinger
}

func NewHealth(checks map[string]Pinger) *Health {
	return &Health{checks: checks}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HandleHealth handles GET /health requests.
func (h *Health) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Version: version.Get(), Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			xslog.FromContext(ctx).WarnContext(ctx, "health check failed", xslog.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	xhttp.WriteJSON(w, status, resp)
}
