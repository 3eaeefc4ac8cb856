package handler

import (
	"errors"
	"net/http"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/service/healthfactor"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type HealthFactors struct {
	service  healthfactor.Service
	audience Audience
}

func NewHealthFactors(service healthfactor.Service, audience Audience) *HealthFactors {
	return &HealthFactors{service: service, audience: audience}
}

func (h *HealthFactors) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, healthfactor.ErrNotFound):
		notFound(ctx, w, "health factor")
	case errors.Is(err, healthfactor.ErrUserNotFound):
		ownerNotFound(ctx, w)
	case errors.Is(err, healthfactor.ErrDateTaken):
		xerrors.WriteError(ctx, w, xerrors.Conflict(xerrors.WithMessage(err.Error())))
	default:
		internal(ctx, w, "health factor operation failed", err)
	}
}

func parseDateParam(r *http.Request, name string, errs map[string]string) *model.Date {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		errs[name] = err.Error()
		return nil
	}
	return &d
}

// HandleList handles GET /api/health-factors requests. ?from= and ?to= bound
// the dates inclusively.
func (h *HealthFactors) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	errs := make(map[string]string)
	from := parseDateParam(r, "from", errs)
	to := parseDateParam(r, "to", errs)
	if len(errs) > 0 {
		xerrors.WriteError(ctx, w, xerrors.Validation(errs))
		return
	}

	factors, err := h.service.List(ctx, h.audience.scope(p), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	xhttp.WriteOK(w, factors)
}

// HandleCreate handles POST /api/health-factors requests.
func (h *HealthFactors) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req healthfactor.Request
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

// HandleGet handles GET /api/health-factors/{id} requests.
func (h *HealthFactors) HandleGet(w http.ResponseWriter, r *http.Request) {
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

// HandleUpdate handles PUT /api/health-factors/{id} requests.
func (h *HealthFactors) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req healthfactor.Request
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

// HandleDelete handles DELETE /api/health-factors/{id} requests.
func (h *HealthFactors) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
