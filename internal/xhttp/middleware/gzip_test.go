package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garrettladley/moyo/internal/xhttp"
)

func TestGzip(t *testing.T) {
	t.Parallel()

	large := strings.Repeat(`{"systolic":120,"diastolic":80},`, 64)

	tests := []struct {
		name           string
		acceptEncoding string
		contentType    string
		encoding       string
		body           string
		opts           []GzipOption
		wantGzip       bool
		wantVary       bool
	}{
		{name: "small body stays plain", acceptEncoding: "gzip", body: "small", wantVary: true},
		{name: "large body compressed", acceptEncoding: "gzip", body: large, wantGzip: true, wantVary: true},
		{name: "exactly min size compressed", acceptEncoding: "gzip", body: strings.Repeat("y", defaultGzipMinSize), wantGzip: true, wantVary: true},
		{name: "custom min size", acceptEncoding: "gzip", body: "tiny but allowed", opts: []GzipOption{WithGzipMinSize(4)}, wantGzip: true, wantVary: true},
		{name: "best compression level", acceptEncoding: "gzip", body: large, opts: []GzipOption{WithGzipLevel(gzip.BestCompression)}, wantGzip: true, wantVary: true},
		{name: "invalid level falls back", acceptEncoding: "gzip", body: large, opts: []GzipOption{WithGzipLevel(42)}, wantGzip: true, wantVary: true},
		{name: "mixed case with quality", acceptEncoding: "br;q=1.0, GZIP;q=0.8", body: large, wantGzip: true, wantVary: true},
		{name: "gzip refused by quality", acceptEncoding: "gzip;q=0", body: large},
		{name: "no accept-encoding", body: large},
		{name: "other codings only", acceptEncoding: "deflate, br", body: large},
		{name: "event stream passes through", acceptEncoding: "gzip", contentType: xhttp.TextEventStream, body: large},
		{name: "already encoded", acceptEncoding: "gzip", encoding: "br", body: large},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set(xhttp.ContentType, tt.contentType)
				}
				if tt.encoding != "" {
					w.Header().Set(xhttp.ContentEncoding, tt.encoding)
				}
				_, _ = io.WriteString(w, tt.body)
			})

			req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/api/readings", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set(xhttp.AcceptEncoding, tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			Gzip(tt.opts...)(handler).ServeHTTP(rec, req)

			resp := rec.Result()
			defer resp.Body.Close() //nolint:errcheck

			if got := resp.Header.Get(xhttp.Vary) == xhttp.AcceptEncoding; got != tt.wantVary {
				t.Errorf("Vary = %q, want set %v", resp.Header.Get(xhttp.Vary), tt.wantVary)
			}

			wantEncoding := tt.encoding
			if tt.wantGzip {
				wantEncoding = gzipEncoding
			}
			if got := resp.Header.Get(xhttp.ContentEncoding); got != wantEncoding {
				t.Errorf("Content-Encoding = %q, want %q", got, wantEncoding)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if tt.wantGzip {
				if body, err = gunzip(body); err != nil {
					t.Fatalf("failed to decompress: %v", err)
				}
			}
			if string(body) != tt.body {
				t.Errorf("body length = %d, want %d", len(body), len(tt.body))
			}
		})
	}
}

func TestGzipStatusPreserved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "created small", status: http.StatusCreated, body: `{"id":1}`},
		{name: "unprocessable large", status: http.StatusUnprocessableEntity, body: strings.Repeat("e", 2048)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/api/readings", nil)
			req.Header.Set(xhttp.AcceptEncoding, gzipEncoding)
			rec := httptest.NewRecorder()
			Gzip()(handler).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestGzipFlush(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 2000))
		w.(http.Flusher).Flush()
		_, _ = io.WriteString(w, strings.Repeat("y", 500))
	})

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/api/readings", nil)
	req.Header.Set(xhttp.AcceptEncoding, gzipEncoding)
	rec := httptest.NewRecorder()
	Gzip()(handler).ServeHTTP(rec, req)

	if !rec.Flushed {
		t.Error("Flushed = false, want true")
	}
	if got := rec.Header().Get(xhttp.ContentEncoding); got != gzipEncoding {
		t.Fatalf("Content-Encoding = %q, want %q", got, gzipEncoding)
	}

	body, err := gunzip(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	want := strings.Repeat("x", 2000) + strings.Repeat("y", 500)
	if string(body) != want {
		t.Errorf("body length = %d, want %d", len(body), len(want))
	}
}

func TestGzipEventStreamFlushesImmediately(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xhttp.SetHeadersEventStream(w)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "event: connected\ndata: {}\n\n")
		w.(http.Flusher).Flush()
	})

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/api/notifications/stream", nil)
	req.Header.Set(xhttp.AcceptEncoding, gzipEncoding)
	rec := httptest.NewRecorder()
	Gzip()(handler).ServeHTTP(rec, req)

	if got := rec.Header().Get(xhttp.ContentEncoding); got != "" {
		t.Errorf("Content-Encoding = %q, want empty", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "event: connected") {
		t.Errorf("body = %q, want event frame", rec.Body.String())
	}
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck

	return io.ReadAll(r)
}
