package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/moyo/internal/version"
)

type moyoTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*moyoTransport)(nil)

func (t *moyoTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(UserAgent, "moyo/"+version.Get())
	req.Header.Set(version.Header, version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard moyo headers.
func NewTransport() http.RoundTripper {
	return &moyoTransport{base: http.DefaultTransport}
}
