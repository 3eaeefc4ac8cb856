package middleware

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/garrettladley/moyo/internal/xhttp"
)

const (
	gzipEncoding       = "gzip"
	defaultGzipMinSize = 1024
)

type gzipConfig struct {
	minSize int
	level   int
}

type GzipOption func(*gzipConfig)

// WithGzipMinSize sets how many bytes a response must reach before it is
// compressed.
func WithGzipMinSize(n int) GzipOption {
	return func(c *gzipConfig) { c.minSize = n }
}

// WithGzipLevel sets the compress/gzip level. Invalid levels fall back to
// gzip.DefaultCompression.
func WithGzipLevel(level int) GzipOption {
	return func(c *gzipConfig) { c.level = level }
}

// Gzip compresses responses of at least the configured size when the client
// accepts gzip. Event streams and responses that already set a
// Content-Encoding pass through untouched.
func Gzip(opts ...GzipOption) Middleware {
	cfg := gzipConfig{minSize: defaultGzipMinSize, level: gzip.DefaultCompression}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.level < gzip.HuffmanOnly || cfg.level > gzip.BestCompression {
		cfg.level = gzip.DefaultCompression
	}

	pool := &sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(nil, cfg.level)
		return w
	}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			gw := &gzipResponseWriter{
				ResponseWriter: w,
				pool:           pool,
				minSize:        cfg.minSize,
				status:         http.StatusOK,
			}
			defer gw.Close() //nolint:errcheck // best-effort flush on response completion

			next.ServeHTTP(gw, r)
		})
	}
}

type gzipMode int

const (
	modeBuffering gzipMode = iota
	modePlain
	modeGzip
)

type gzipResponseWriter struct {
	http.ResponseWriter
	pool    *sync.Pool
	minSize int

	gz      *gzip.Writer
	buf     bytes.Buffer
	status  int
	mode    gzipMode
	written bool
}

var (
	_ http.ResponseWriter = (*gzipResponseWriter)(nil)
	_ http.Flusher        = (*gzipResponseWriter)(nil)
)

func (g *gzipResponseWriter) WriteHeader(code int) {
	if g.written {
		return
	}
	g.written = true
	g.status = code
	// Streams must reach the client as they are written.
	if strings.HasPrefix(g.Header().Get(xhttp.ContentType), xhttp.TextEventStream) {
		g.passThrough()
	}
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if !g.written {
		g.WriteHeader(http.StatusOK)
	}

	switch g.mode {
	case modeGzip:
		n, err := g.gz.Write(b)
		if err != nil {
			return n, fmt.Errorf("failed to write gzip: %w", err)
		}
		return n, nil
	case modePlain:
		n, err := g.ResponseWriter.Write(b)
		if err != nil {
			return n, fmt.Errorf("failed to write response: %w", err)
		}
		return n, nil
	}

	g.buf.Write(b)
	if g.buf.Len() < g.minSize {
		return len(b), nil
	}
	if err := g.decide(); err != nil {
		return 0, err
	}
	return len(b), nil
}

// decide leaves buffering once enough of the body is known.
func (g *gzipResponseWriter) decide() error {
	if g.Header().Get(xhttp.ContentEncoding) != "" {
		g.passThrough()
		return g.drain(g.ResponseWriter)
	}

	g.mode = modeGzip
	g.Header().Add(xhttp.Vary, xhttp.AcceptEncoding)
	g.Header().Set(xhttp.ContentEncoding, gzipEncoding)
	g.Header().Del(xhttp.ContentLength)
	g.ResponseWriter.WriteHeader(g.status)

	g.gz = g.pool.Get().(*gzip.Writer)
	g.gz.Reset(g.ResponseWriter)
	return g.drain(g.gz)
}

func (g *gzipResponseWriter) passThrough() {
	if g.mode != modeBuffering {
		return
	}
	g.mode = modePlain
	g.ResponseWriter.WriteHeader(g.status)
}

func (g *gzipResponseWriter) drain(w interface{ Write([]byte) (int, error) }) error {
	if g.buf.Len() == 0 {
		return nil
	}
	if _, err := w.Write(g.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write buffered response: %w", err)
	}
	g.buf.Reset()
	return nil
}

// Close writes whatever is still buffered and returns the gzip writer to
// its pool.
func (g *gzipResponseWriter) Close() error {
	switch g.mode {
	case modeBuffering:
		if g.written || g.buf.Len() > 0 {
			g.Header().Add(xhttp.Vary, xhttp.AcceptEncoding)
			g.passThrough()
			return g.drain(g.ResponseWriter)
		}
		return nil
	case modeGzip:
		err := g.gz.Close()
		g.pool.Put(g.gz)
		g.gz = nil
		g.mode = modePlain
		if err != nil {
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	return nil
}

func (g *gzipResponseWriter) Flush() {
	if g.mode == modeBuffering {
		if err := g.decide(); err != nil {
			return
		}
	}
	if g.gz != nil {
		_ = g.gz.Flush()
	}
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (g *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}

func acceptsGzip(r *http.Request) bool {
	for part := range strings.SplitSeq(r.Header.Get(xhttp.AcceptEncoding), ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), gzipEncoding) {
			continue
		}
		return strings.ReplaceAll(params, " ", "") != "q=0"
	}
	return false
}
