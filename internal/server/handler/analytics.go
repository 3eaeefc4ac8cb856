package handler

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/analytics"
	analyticssvc "github.com/garrettladley/moyo/internal/service/analytics"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Analytics struct {
	service analyticssvc.Service
}

func NewAnalytics(service analyticssvc.Service) *Analytics {
	return &Analytics{service: service}
}

// HandleTrends handles GET /api/analytics/trends requests.
func (h *Analytics) HandleTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	window, errs := parseWindow(r, analytics.Period30Days)
	mode, err := analytics.ParseMode(r.URL.Query().Get(paramMode))
	if err != nil {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs[paramMode] = err.Error()
	}
	if errs != nil {
		xerrors.WriteError(ctx, w, xerrors.Validation(errs))
		return
	}

	trend, err := h.service.Trends(ctx, p.UserID, window, mode)
	if err != nil {
		internal(ctx, w, "failed to build trends", err)
		return
	}

	xslog.FromContext(ctx).DebugContext(ctx, "built trends",
		xslog.Period(string(trend.Period)),
		xslog.Count(trend.Count),
	)

	xhttp.WriteOK(w, trend)
}

// HandleCorrelations handles GET /api/analytics/correlations requests.
func (h *Analytics) HandleCorrelations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	window, errs := parseWindow(r, analytics.Period30Days)
	if errs != nil {
		xerrors.WriteError(ctx, w, xerrors.Validation(errs))
		return
	}

	corr, err := h.service.Correlations(ctx, p.UserID, window)
	if err != nil {
		internal(ctx, w, "failed to correlate readings", err)
		return
	}

	xhttp.WriteOK(w, corr)
}

// HandleSummary handles GET /api/analytics/summary requests.
func (h *Analytics) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(ctx, p.UserID)
	if err != nil {
		internal(ctx, w, "failed to summarize readings", err)
		return
	}

	xhttp.WriteOK(w, summary)
}
