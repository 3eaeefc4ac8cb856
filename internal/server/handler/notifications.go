package handler

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type Notifications struct {
	service notification.Service
}

func NewNotifications(service notification.Service) *Notifications {
	return &Notifications{service: service}
}

// HandleGetPreferences handles GET /api/notifications/preferences requests.
func (h *Notifications) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	prefs, err := h.service.Preferences(ctx, p.UserID)
	if err != nil {
		internal(ctx, w, "failed to load notification preferences", err)
		return
	}

	xhttp.WriteOK(w, prefs)
}

// HandleUpdatePreferences handles PUT /api/notifications/preferences requests.
func (h *Notifications) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req notification.PreferencesRequest
	if !decode(w, r, &req) {
		return
	}

	prefs, err := h.service.UpdatePreferences(ctx, p.UserID, req)
	if err != nil {
		internal(ctx, w, "failed to update notification preferences", err)
		return
	}

	xhttp.WriteOK(w, prefs)
}

// HandleListLogs handles GET /api/notifications/logs requests. Admins see
// every user's log.
func (h *Notifications) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	logs, err := h.service.Logs(ctx, SelfOrAdmin.scope(p))
	if err != nil {
		internal(ctx, w, "failed to list notification logs", err)
		return
	}

	xhttp.WriteOK(w, logs)
}
