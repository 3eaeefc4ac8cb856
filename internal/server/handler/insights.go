package handler

import (
	"errors"
	"net/http"

	"github.com/garrettladley/moyo/internal/service/insight"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type Insights struct {
	service  insight.Service
	audience Audience
}

func NewInsights(service insight.Service, audience Audience) *Insights {
	return &Insights{service: service, audience: audience}
}

func (h *Insights) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, insight.ErrNotFound):
		notFound(ctx, w, "insight")
	case errors.Is(err, insight.ErrUserNotFound):
		ownerNotFound(ctx, w)
	default:
		internal(ctx, w, "insight operation failed", err)
	}
}

// HandleList handles GET /api/insights requests.
func (h *Insights) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	insights, err := h.service.List(r.Context(), h.audience.scope(p))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, insights)
}

// HandleGet handles GET /api/insights/{id} requests.
func (h *Insights) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	got, err := h.service.Get(r.Context(), h.audience.scope(p), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, got)
}

// HandleMarkRead handles POST /api/insights/{id}/mark-read requests.
func (h *Insights) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	got, err := h.service.MarkRead(r.Context(), h.audience.scope(p), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, got)
}

// HandleCreate handles POST /api/admin/insights requests.
func (h *Insights) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req insight.Request
	if !decode(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), h.audience.owner(p, req.UserID), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteCreated(w, created)
}

// HandleUpdate handles PUT /api/admin/insights/{id} requests.
func (h *Insights) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req insight.Request
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), h.audience.scope(p), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, updated)
}

// HandleDelete handles DELETE /api/admin/insights/{id} requests.
func (h *Insights) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), h.audience.scope(p), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteNoContent(w)
}
