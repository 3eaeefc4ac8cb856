package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository/repotest"
	analyticssvc "github.com/garrettladley/moyo/internal/service/analytics"
	"github.com/garrettladley/moyo/internal/service/auth"
	"github.com/garrettladley/moyo/internal/service/healthfactor"
	"github.com/garrettladley/moyo/internal/service/insight"
	"github.com/garrettladley/moyo/internal/service/medication"
	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/service/reading"
	"github.com/garrettladley/moyo/internal/service/token"
	"github.com/garrettladley/moyo/internal/service/user"
	"github.com/garrettladley/moyo/internal/storage"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type testServer struct {
	handler http.Handler
	store   *repotest.Store
	tokens  *token.JWT
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	backend := storage.NewMemoryBackend(1000, 1000)
	t.Cleanup(func() { _ = backend.Close() })

	tokens := token.NewJWT(token.Config{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: time.Hour}, backend)
	repo, store := repotest.New()

	notifications := notification.NewHybrid(repo.Notifications, storage.NewMemoryBroker())
	insights := insight.NewPostgres(repo.Insights, repo.Users, notifications)

	mux := NewMux(Services{
		Auth:          auth.NewPassword(repo.Users, tokens),
		Tokens:        tokens,
		Readings:      reading.NewPostgres(repo.Readings, insights),
		HealthFactors: healthfactor.NewPostgres(repo.HealthFactors),
		Medications:   medication.NewPostgres(repo.Medications),
		Insights:      insights,
		Notifications: notifications,
		Users:         user.NewPostgresService(repo.Users),
		Analytics:     analyticssvc.NewPostgres(repo.Readings, repo.HealthFactors, nil),
		Limiter:       backend,
		Checks:        nil,
	})

	return &testServer{handler: mux, store: store, tokens: tokens}
}

func (s *testServer) login(t *testing.T, u model.User) (model.User, string) {
	t.Helper()
	seeded := s.store.SeedUser(u)
	pair, err := s.tokens.Issue(t.Context(), seeded)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return seeded, pair.Access
}

func (s *testServer) do(t *testing.T, method, path, access string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := go_json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequestWithContext(t.Context(), method, path, &buf)
	if access != "" {
		xhttp.SetBearerToken(req, access)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := go_json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestRoutesAccessControl(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, userToken := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "readings need a token", method: http.MethodGet, path: "/api/readings", wantStatus: http.StatusUnauthorized},
		{name: "readings with token", method: http.MethodGet, path: "/api/readings", token: userToken, wantStatus: http.StatusOK},
		{name: "admin users forbidden", method: http.MethodGet, path: "/api/admin/users", token: userToken, wantStatus: http.StatusForbidden},
		{name: "admin readings anonymous", method: http.MethodGet, path: "/api/admin/readings", wantStatus: http.StatusUnauthorized},
		{name: "bad id is not found", method: http.MethodGet, path: "/api/readings/abc", token: userToken, wantStatus: http.StatusNotFound},
		{name: "unknown reading", method: http.MethodGet, path: "/api/readings/999", token: userToken, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := s.do(t, tt.method, tt.path, tt.token, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRegisterLoginRefresh(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "grace@example.com", "username": "grace", "password": "hopper1906",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "grace@example.com", "username": "grace2", "password": "hopper1906",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate register status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	rec = s.do(t, http.MethodPost, "/api/token", "", map[string]string{"email": "grace@example.com", "password": "wrong-password"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = s.do(t, http.MethodPost, "/api/token", "", map[string]string{"email": "grace@example.com", "password": "hopper1906"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	pair := decodeBody[token.Pair](t, rec)

	rec = s.do(t, http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh": pair.Refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh": pair.Refresh})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = s.do(t, http.MethodGet, "/api/auth/profile", pair.Access, nil)
	if got := decodeBody[model.User](t, rec); got.Username != "grace" {
		t.Errorf("profile username = %q, want %q", got.Username, "grace")
	}
}

func TestStageTwoReadingRaisesAlert(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, access := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})

	rec := s.do(t, http.MethodPost, "/api/readings", access, map[string]any{
		"systolic": 165, "diastolic": 100, "recorded_at": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	created := decodeBody[model.Reading](t, rec)
	if created.Category == nil || *created.Category != model.CategoryHighStage2 {
		t.Errorf("category = %v, want %v", created.Category, model.CategoryHighStage2)
	}

	rec = s.do(t, http.MethodGet, "/api/insights", access, nil)
	insights := decodeBody[[]model.UserInsight](t, rec)
	if len(insights) != 1 || insights[0].Severity != model.SeverityHigh {
		t.Fatalf("insights = %+v, want one high severity alert", insights)
	}

	rec = s.do(t, http.MethodGet, "/api/notifications/logs", access, nil)
	if logs := decodeBody[[]model.NotificationLog](t, rec); len(logs) != 1 {
		t.Errorf("notification logs = %d, want 1", len(logs))
	}

	rec = s.do(t, http.MethodGet, "/api/analytics/summary", access, nil)
	summary := decodeBody[analyticssvc.Summary](t, rec)
	if diff := cmp.Diff(1, summary.Categories[model.CategoryHighStage2]); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestReadingValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, access := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})

	rec := s.do(t, http.MethodPost, "/api/readings", access, map[string]any{"systolic": 20, "diastolic": 80})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/api/readings", bytes.NewBufferString("{"))
	xhttp.SetBearerToken(req, access)
	raw := httptest.NewRecorder()
	s.handler.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want %d", raw.Code, http.StatusBadRequest)
	}

	rec = s.do(t, http.MethodGet, "/api/readings?window=fortnight", access, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad window status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestClassifyPreview(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, access := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})

	rec := s.do(t, http.MethodGet, "/api/readings/classify?systolic=125&diastolic=75", access, nil)
	got := decodeBody[map[string]string](t, rec)
	want := map[string]string{"category": "elevated", "label": "ELEVATED", "color": got["color"]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classify mismatch (-want +got):\n%s", diff)
	}
	if got["color"] == "" {
		t.Error("classify color is empty")
	}
}

func TestHealthFactorSameDateConflicts(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, access := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})

	body := map[string]any{"date": "2026-03-01", "sleep_quality": 4, "stress_level": 2, "exercise_duration": 30}
	if rec := s.do(t, http.MethodPost, "/api/health-factors", access, body); rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if rec := s.do(t, http.MethodPost, "/api/health-factors", access, body); rec.Code != http.StatusConflict {
		t.Errorf("second create status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec := s.do(t, http.MethodGet, "/api/health-factors?from=2026-03-02", access, nil)
	if got := decodeBody[[]model.HealthFactor](t, rec); len(got) != 0 {
		t.Errorf("filtered factors = %d, want 0", len(got))
	}
}

func TestMedicationOwnership(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, owner := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})
	_, other := s.login(t, model.User{Email: "bob@example.com", Username: "bob"})
	_, admin := s.login(t, model.User{Email: "root@example.com", Username: "root", IsSuperuser: true})

	rec := s.do(t, http.MethodPost, "/api/medications", owner, map[string]any{
		"name": "Lisinopril", "dosage": "10mg", "frequency": "once_daily", "start_date": "2026-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	med := decodeBody[model.Medication](t, rec)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
	}{
		{name: "owner logs dose", method: http.MethodPost, path: "/api/medications/" + strconv.FormatInt(med.ID, 10) + "/log-dose", token: owner, body: map[string]any{}, wantStatus: http.StatusCreated},
		{name: "other cannot see", method: http.MethodGet, path: "/api/medications/" + strconv.FormatInt(med.ID, 10), token: other, wantStatus: http.StatusNotFound},
		{name: "other log-dose hidden", method: http.MethodPost, path: "/api/medications/" + strconv.FormatInt(med.ID, 10) + "/log-dose", token: other, body: map[string]any{}, wantStatus: http.StatusNotFound},
		{name: "other medication-log forbidden", method: http.MethodPost, path: "/api/medication-logs", token: other, body: map[string]any{"medication": med.ID}, wantStatus: http.StatusForbidden},
		{name: "admin sees it", method: http.MethodGet, path: "/api/medications/" + strconv.FormatInt(med.ID, 10), token: admin, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		rec := s.do(t, tt.method, tt.path, tt.token, tt.body)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.wantStatus, rec.Body.String())
		}
	}

	rec = s.do(t, http.MethodGet, "/api/medications/"+strconv.FormatInt(med.ID, 10), owner, nil)
	got := decodeBody[model.Medication](t, rec)
	if len(got.Logs) != 1 || got.RecentLogsCount == nil || *got.RecentLogsCount != 1 {
		t.Errorf("medication logs = %d recent = %v, want 1 and 1", len(got.Logs), got.RecentLogsCount)
	}
}

func TestAdminCreateForUnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	u, _ := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})
	_, admin := s.login(t, model.User{Email: "root@example.com", Username: "root", IsStaff: true})

	recordedAt := time.Now().Add(-time.Hour).Format(time.RFC3339)

	rec := s.do(t, http.MethodPost, "/api/admin/readings", admin, map[string]any{
		"user_id": 9999, "systolic": 120, "diastolic": 80, "recorded_at": recordedAt,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown owner status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	rec = s.do(t, http.MethodPost, "/api/admin/readings", admin, map[string]any{
		"user_id": u.ID, "systolic": 120, "diastolic": 80, "recorded_at": recordedAt,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if got := decodeBody[model.Reading](t, rec); got.UserID != u.ID {
		t.Errorf("owner = %d, want %d", got.UserID, u.ID)
	}

	if rec := s.do(t, http.MethodDelete, "/api/admin/users/"+strconv.FormatInt(u.ID, 10), admin, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete user status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	rec = s.do(t, http.MethodGet, "/api/admin/readings", admin, nil)
	if got := decodeBody[[]model.Reading](t, rec); len(got) != 0 {
		t.Errorf("readings after cascade = %d, want 0", len(got))
	}
}

func TestAnalyticsTrends(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, access := s.login(t, model.User{Email: "ada@example.com", Username: "ada"})

	for _, sys := range []int{118, 135} {
		rec := s.do(t, http.MethodPost, "/api/readings", access, map[string]any{
			"systolic": sys, "diastolic": 78, "recorded_at": time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d (%s)", rec.Code, rec.Body.String())
		}
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "default window", query: "", wantStatus: http.StatusOK, wantCount: 2},
		{name: "local mode", query: "?window=7d&mode=local", wantStatus: http.StatusOK, wantCount: 2},
		{name: "unknown mode", query: "?mode=guess", wantStatus: http.StatusUnprocessableEntity},
		{name: "bad start", query: "?start=yesterday", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		rec := s.do(t, http.MethodGet, "/api/analytics/trends"+tt.query, access, nil)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.wantStatus, rec.Body.String())
			continue
		}
		if tt.wantStatus != http.StatusOK {
			continue
		}
		if got := decodeBody[analyticssvc.Trend](t, rec); got.Count != tt.wantCount {
			t.Errorf("%s: count = %d, want %d", tt.name, got.Count, tt.wantCount)
		}
	}

	rec := s.do(t, http.MethodGet, "/api/analytics/correlations", access, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("correlations status = %d, want %d", rec.Code, http.StatusOK)
	}
}
