// Package moyo is the HTTP client for the moyo API.
package moyo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/garrettladley/moyo/internal/xhttp"
)

const defaultTimeout = 30 * time.Second

var errNoTokenSource = errors.New("moyo client: request needs a login")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a client for baseURL. Authenticated calls take their bearer
// token from tokenSource; a nil tokenSource only allows the public auth
// endpoints.
func New(baseURL string, tokenSource oauth2.TokenSource, opts ...Option) *Client {
	cfg := &clientConfig{
		tokenSource: tokenSource,
		logger:      slog.Default(),
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := &moyoTransport{
		base:        xhttp.NewTransport(),
		tokenSource: cfg.tokenSource,
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:     cfg.logger,
	}
}

type clientConfig struct {
	tokenSource oauth2.TokenSource
	logger      *slog.Logger
	timeout     time.Duration
}

type Option func(*clientConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// public requests carry no bearer token
	public bool
}

func (c *Client) do(ctx context.Context, r request, result any) error {
	body, err := c.raw(ctx, r)
	if err != nil {
		return err
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := go_json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response: %w\nbody: %s", err, string(body))
	}
	return nil
}

// raw performs the request and returns the undecoded body of a successful
// response.
func (c *Client) raw(ctx context.Context, r request) ([]byte, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := go_json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if r.body != nil {
		req.Header.Set(xhttp.ContentType, xhttp.ApplicationJSON)
	}
	if r.public {
		req = req.WithContext(withPublic(req.Context()))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "moyo api request",
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

type publicKey struct{}

func withPublic(ctx context.Context) context.Context {
	return context.WithValue(ctx, publicKey{}, true)
}

func isPublic(ctx context.Context) bool {
	v, _ := ctx.Value(publicKey{}).(bool)
	return v
}

type moyoTransport struct {
	base        http.RoundTripper
	tokenSource oauth2.TokenSource
}

var _ http.RoundTripper = (*moyoTransport)(nil)

func (t *moyoTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(xhttp.Accept, xhttp.ApplicationJSON)

	if !isPublic(req.Context()) {
		if t.tokenSource == nil {
			return nil, errNoTokenSource
		}
		token, err := t.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}
		xhttp.SetBearerToken(req, token.AccessToken)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}
