package xhttp

import (
	"net/http"
	"time"
)

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

// WithBaseTransport wraps rt instead of http.DefaultTransport.
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(c *http.Client) { c.Transport = &moyoTransport{base: rt} }
}

// NewHTTPClient returns a client whose requests carry the moyo user agent
// and client version headers.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
