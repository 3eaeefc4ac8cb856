package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/garrettladley/moyo/internal/service/medication"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type Medications struct {
	service  medication.Service
	audience Audience
}

func NewMedications(service medication.Service, audience Audience) *Medications {
	return &Medications{service: service, audience: audience}
}

func (h *Medications) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, medication.ErrNotFound):
		notFound(ctx, w, "medication")
	case errors.Is(err, medication.ErrLogNotFound):
		notFound(ctx, w, "medication log")
	case errors.Is(err, medication.ErrUserNotFound):
		ownerNotFound(ctx, w)
	case errors.Is(err, medication.ErrForbidden):
		xerrors.WriteError(ctx, w, xerrors.Forbidden(xerrors.WithMessage(err.Error())))
	default:
		internal(ctx, w, "medication operation failed", err)
	}
}

// HandleList handles GET /api/medications requests.
func (h *Medications) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// HandleActive handles GET /api/medications/active requests.
func (h *Medications) HandleActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Medications) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	meds, err := h.service.List(r.Context(), h.audience.scope(p), activeOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, meds)
}

// HandleCreate handles POST /api/medications requests.
func (h *Medications) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req medication.Request
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

// HandleGet handles GET /api/medications/{id} requests. The response
// includes the dose logs.
func (h *Medications) HandleGet(w http.ResponseWriter, r *http.Request) {
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

// HandleUpdate handles PUT /api/medications/{id} requests.
func (h *Medications) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req medication.Request
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

// HandleDelete handles DELETE /api/medications/{id} requests.
func (h *Medications) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

// HandleLogDose handles POST /api/medications/{id}/log-dose requests.
func (h *Medications) HandleLogDose(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req medication.DoseRequest
	if err := xhttp.DecodeJSON(r, &req); err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.BadRequest(xerrors.WithMessage("invalid JSON body")))
		return
	}
	req.MedicationID = id

	l, err := h.service.LogDose(r.Context(), h.audience.scope(p), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteCreated(w, l)
}

// HandleListLogs handles GET /api/medication-logs requests, optionally
// filtered by ?medication=.
func (h *Medications) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var medicationID *int64
	if raw := r.URL.Query().Get("medication"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			xerrors.WriteError(ctx, w, xerrors.Validation(map[string]string{"medication": "a valid integer is required"}))
			return
		}
		medicationID = &id
	}

	logs, err := h.service.ListLogs(ctx, h.audience.scope(p), medicationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, logs)
}

// HandleCreateLog handles POST /api/medication-logs requests.
func (h *Medications) HandleCreateLog(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req medication.DoseRequest
	if !decode(w, r, &req) {
		return
	}

	l, err := h.service.CreateLog(r.Context(), h.audience.scope(p), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteCreated(w, l)
}

// HandleDeleteLog handles DELETE /api/medication-logs/{id} requests.
func (h *Medications) HandleDeleteLog(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteLog(r.Context(), h.audience.scope(p), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteNoContent(w)
}
