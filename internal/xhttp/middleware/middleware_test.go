package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	const inbound = "5f0c3f4e-2a51-4b38-9a9b-7f1c1f6b9d10"

	tests := []struct {
		name    string
		opts    []RequestIDOption
		header  string
		want    string
		wantNew bool
	}{
		{name: "generated", wantNew: true},
		{name: "inbound ignored by default", header: inbound, wantNew: true},
		{name: "inbound trusted", opts: []RequestIDOption{WithInboundRequestID()}, header: inbound, want: inbound},
		{name: "inbound not a uuid", opts: []RequestIDOption{WithInboundRequestID()}, header: "../etc", wantNew: true},
		{name: "custom generator", opts: []RequestIDOption{WithRequestIDFunc(func(*http.Request) string { return "fixed" })}, want: "fixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromCtx string
			h := RequestID(tt.opts...)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				fromCtx, _ = xcontext.GetRequestID(r.Context())
			}))

			req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/api/readings", nil)
			if tt.header != "" {
				req.Header.Set(xhttp.XRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(xhttp.XRequestID)
			if got != fromCtx {
				t.Errorf("header %q != context %q", got, fromCtx)
			}
			if tt.wantNew {
				if _, err := uuid.Parse(got); err != nil || got == tt.header {
					t.Errorf("RequestID() = %q, want fresh uuid", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("RequestID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequestWithContext(xslog.WithLogger(t.Context(), xslog.Discard()), http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRecoveryReraisesAbort(t *testing.T) {
	t.Parallel()

	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Errorf("recover() = %v, want %v", v, http.ErrAbortHandler)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil))
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xhttp.SetHeadersEventStream(w)
	})).ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil))

	if got := rec.Header().Get(xhttp.XContentTypeOpts); got != "nosniff" {
		t.Errorf("%s = %q, want nosniff", xhttp.XContentTypeOpts, got)
	}
	if got := rec.Header().Get(xhttp.CacheControl); got == "no-store" {
		t.Errorf("%s = %q, want handler override", xhttp.CacheControl, got)
	}
}

func TestLoggingLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   string
	}{
		{status: http.StatusOK, want: "level=INFO"},
		{status: http.StatusNotFound, want: "level=WARN"},
		{status: http.StatusBadGateway, want: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			h := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ok"))
			}))
			req := httptest.NewRequestWithContext(xslog.WithLogger(t.Context(), logger), http.MethodGet, "/api/readings", nil)
			h.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("log = %q, want %s", out, tt.want)
			}
			if !strings.Contains(out, "bytes=2") {
				t.Errorf("log = %q, want bytes=2", out)
			}
		})
	}
}

func TestShutdownContext(t *testing.T) {
	t.Parallel()

	var marked bool
	h := ShutdownContext(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		marked = xcontext.IsShutdownInProgress(r.Context())
	}))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequestWithContext(ctx, http.MethodGet, "/", nil))

	if !marked {
		t.Error("IsShutdownInProgress() = false, want true after cancel")
	}
}
