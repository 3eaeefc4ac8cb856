package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/xcontext"
)

func TestAudienceScope(t *testing.T) {
	t.Parallel()

	user := xcontext.Principal{UserID: 7}
	admin := xcontext.Principal{UserID: 1, IsAdmin: true}

	tests := []struct {
		name     string
		audience Audience
		p        xcontext.Principal
		want     repository.Scope
	}{
		{name: "self user", audience: Self, p: user, want: repository.UserScope(7)},
		{name: "self admin stays own", audience: Self, p: admin, want: repository.UserScope(1)},
		{name: "everyone", audience: Everyone, p: admin, want: repository.AllUsers()},
		{name: "self or admin as user", audience: SelfOrAdmin, p: user, want: repository.UserScope(7)},
		{name: "self or admin as admin", audience: SelfOrAdmin, p: admin, want: repository.AllUsers()},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.audience.scope(tt.p)); diff != "" {
			t.Errorf("%s: scope() mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestAudienceOwner(t *testing.T) {
	t.Parallel()

	other := int64(99)
	user := xcontext.Principal{UserID: 7}
	admin := xcontext.Principal{UserID: 1, IsAdmin: true}

	tests := []struct {
		name      string
		audience  Audience
		p         xcontext.Principal
		requested *int64
		want      int64
	}{
		{name: "user cannot pick owner", audience: Self, p: user, requested: &other, want: 7},
		{name: "admin picks owner", audience: Everyone, p: admin, requested: &other, want: 99},
		{name: "admin default is self", audience: Everyone, p: admin, want: 1},
		{name: "medication admin picks owner", audience: SelfOrAdmin, p: admin, requested: &other, want: 99},
	}

	for _, tt := range tests {
		if got := tt.audience.owner(tt.p, tt.requested); got != tt.want {
			t.Errorf("%s: owner() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantPeriod analytics.Period
		wantErrs   []string
	}{
		{name: "fallback", query: "", wantPeriod: analytics.Period30Days},
		{name: "named", query: "?window=90d", wantPeriod: analytics.Period90Days},
		{name: "bounds imply custom", query: "?start=2026-01-01", wantPeriod: analytics.PeriodCustom},
		{name: "rfc3339 end", query: "?window=custom&end=2026-01-31T23:00:00Z", wantPeriod: analytics.PeriodCustom},
		{name: "unknown window", query: "?window=5w", wantErrs: []string{paramWindow}},
		{name: "bad bounds", query: "?start=soon&end=later", wantErrs: []string{paramStart, paramEnd}},
	}

	for _, tt := range tests {
		req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/api/analytics/trends"+tt.query, nil)
		w, errs := parseWindow(req, analytics.Period30Days)

		if len(tt.wantErrs) > 0 {
			for _, field := range tt.wantErrs {
				if _, ok := errs[field]; !ok {
					t.Errorf("%s: parseWindow() errs = %v, want %q", tt.name, errs, field)
				}
			}
			continue
		}
		if errs != nil {
			t.Errorf("%s: parseWindow() errs = %v, want none", tt.name, errs)
			continue
		}
		if w.Period != tt.wantPeriod {
			t.Errorf("%s: parseWindow() period = %q, want %q", tt.name, w.Period, tt.wantPeriod)
		}
	}
}

func TestParseBoundDateIsLocalMidnight(t *testing.T) {
	t.Parallel()

	got, err := parseBound("2026-02-03")
	if err != nil {
		t.Fatalf("parseBound() error = %v", err)
	}
	want := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("parseBound() = %v, want %v", got, want)
	}
}
