package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/validator"
	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
)

var errMissingPrincipal = xerrors.Unauthorized(xerrors.WithMessage("authentication credentials were not provided"))

// Audience selects whose records a handler serves.
type Audience int

const (
	// Self serves the caller's own records.
	Self Audience = iota
	// Everyone serves every user's records; mounted under /api/admin.
	Everyone
	// SelfOrAdmin serves every record to admins and own records to others.
	SelfOrAdmin
)

func (a Audience) scope(p xcontext.Principal) repository.Scope {
	switch {
	case a == Everyone, a == SelfOrAdmin && p.IsAdmin:
		return repository.AllUsers()
	default:
		return repository.UserScope(p.UserID)
	}
}

// owner picks the user a new record belongs to: the requested one for
// admins, the caller otherwise.
func (a Audience) owner(p xcontext.Principal, requested *int64) int64 {
	if requested != nil && *requested != 0 && (a == Everyone || p.IsAdmin) {
		return *requested
	}
	return p.UserID
}

func principal(w http.ResponseWriter, r *http.Request) (xcontext.Principal, bool) {
	p, ok := xcontext.GetPrincipal(r.Context())
	if !ok {
		xerrors.WriteError(r.Context(), w, errMissingPrincipal)
	}
	return p, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		xerrors.WriteError(r.Context(), w, xerrors.NotFound(xerrors.WithMessage("not found")))
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, v validator.Validator) bool {
	if err := xhttp.DecodeJSON(r, v); err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.BadRequest(xerrors.WithMessage("invalid JSON body"), xerrors.WithCause(err)))
		return false
	}
	if verr := validator.Validate(v); verr != nil {
		xerrors.WriteError(r.Context(), w, verr)
		return false
	}
	return true
}

func internal(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage(msg), xerrors.WithCause(err)))
}

func notFound(ctx context.Context, w http.ResponseWriter, what string) {
	xerrors.WriteError(ctx, w, xerrors.NotFound(xerrors.WithMessage(what+" not found")))
}

func ownerNotFound(ctx context.Context, w http.ResponseWriter) {
	xerrors.WriteError(ctx, w, xerrors.Validation(map[string]string{"user_id": "user not found"}))
}

const (
	paramWindow = "window"
	paramStart  = "start"
	paramEnd    = "end"
	paramMode   = "mode"
)

var errInvalidBound = errors.New("expected YYYY-MM-DD or RFC3339")

func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, errInvalidBound
	}
	t := d.In(time.Local)
	return &t, nil
}

// parseWindow reads ?window=&start=&end=. Explicit bounds without a window
// select a custom window; no parameters at all select fallback.
func parseWindow(r *http.Request, fallback analytics.Period) (analytics.Window, map[string]string) {
	q := r.URL.Query()
	errs := make(map[string]string)

	start, err := parseBound(q.Get(paramStart))
	if err != nil {
		errs[paramStart] = err.Error()
	}
	end, err := parseBound(q.Get(paramEnd))
	if err != nil {
		errs[paramEnd] = err.Error()
	}

	raw := q.Get(paramWindow)
	var period analytics.Period
	switch {
	case raw == "" && (start != nil || end != nil):
		period = analytics.PeriodCustom
	case raw == "":
		period = fallback
	default:
		period, err = analytics.ParsePeriod(raw)
		if err != nil {
			errs[paramWindow] = err.Error()
		}
	}

	if len(errs) > 0 {
		return analytics.Window{}, errs
	}
	return analytics.Window{Period: period, CustomStart: start, CustomEnd: end}, nil
}
