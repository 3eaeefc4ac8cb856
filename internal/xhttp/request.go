package xhttp

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	go_json "github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// GetRequestIP returns the originating client address: the first
// X-Forwarded-For hop when present, else the peer address.
func GetRequestIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return stripPort(strings.TrimSpace(first))
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// DecodeJSON decodes a request body of at most 1MB into v.
func DecodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if err := go_json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
