package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/service/reading"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Readings struct {
	service  reading.Service
	audience Audience
}

func NewReadings(service reading.Service, audience Audience) *Readings {
	return &Readings{service: service, audience: audience}
}

func (h *Readings) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, reading.ErrNotFound):
		notFound(ctx, w, "reading")
	case errors.Is(err, reading.ErrUserNotFound):
		ownerNotFound(ctx, w)
	default:
		internal(ctx, w, "reading operation failed", err)
	}
}

// HandleList handles GET /api/readings requests.
func (h *Readings) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	window, errs := parseWindow(r, analytics.PeriodAll)
	if errs != nil {
		xerrors.WriteError(ctx, w, xerrors.Validation(errs))
		return
	}

	readings, err := h.service.List(ctx, h.audience.scope(p), window)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xslog.FromContext(ctx).DebugContext(ctx, "listed readings",
		xslog.Period(string(window.Period)),
		xslog.Count(len(readings)),
	)

	xhttp.WriteOK(w, readings)
}

// HandleCreate handles POST /api/readings requests.
func (h *Readings) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req reading.Request
	if !decode(w, r, &req) {
		return
	}

	created, err := h.service.Create(ctx, h.audience.owner(p, req.UserID), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteCreated(w, created)
}

// HandleGet handles GET /api/readings/{id} requests.
func (h *Readings) HandleGet(w http.ResponseWriter, r *http.Request) {
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

// HandleUpdate handles PUT /api/readings/{id} requests.
func (h *Readings) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req reading.Request
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

// HandleDelete handles DELETE /api/readings/{id} requests.
func (h *Readings) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	xslog.FromContext(r.Context()).InfoContext(r.Context(), "reading deleted", xslog.ReadingID(id))
	xhttp.WriteNoContent(w)
}

// HandleClassify handles GET /api/readings/classify?systolic=&diastolic=
// requests: a preview that stores nothing.
func (h *Readings) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reading.Request
	q := r.URL.Query()
	errs := make(map[string]string)
	for field, dst := range map[string]*int{"systolic": &req.Systolic, "diastolic": &req.Diastolic} {
		v, err := strconv.Atoi(q.Get(field))
		if err != nil {
			errs[field] = "a valid integer is required"
			continue
		}
		*dst = v
	}
	if len(errs) > 0 {
		xerrors.WriteError(ctx, w, xerrors.Validation(errs))
		return
	}

	category := analytics.Classify(req.Systolic, req.Diastolic)
	xhttp.WriteOK(w, classifyResponse{
		Category: category,
		Label:    category.Label(),
		Color:    analytics.ColorFor(category),
	})
}

type classifyResponse struct {
	Category model.Category  `json:"category"`
	Label    string          `json:"label"`
	Color    analytics.Color `json:"color"`
}
