package moyo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/moyo/internal/xhttp"
)

type APIError struct {
	StatusCode int
	Message    string
	// Fields holds per-field validation errors of a 422.
	Fields     map[string]string
	RetryAfter time.Duration
	// RequestID correlates the failure with the server's logs.
	RequestID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("moyo api: %d %s", e.StatusCode, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	if s, err := strconv.Atoi(resp.Header.Get(xhttp.RetryAfter)); err == nil {
		apiErr.RetryAfter = time.Duration(s) * time.Second
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var errResp struct {
		Message   string            `json:"message"`
		Fields    map[string]string `json:"fields"`
		RequestID string            `json:"request_id"`
	}
	if err := go_json.Unmarshal(body, &errResp); err != nil {
		if len(body) > 0 {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if errResp.Message != "" {
		apiErr.Message = errResp.Message
	}
	apiErr.Fields = errResp.Fields
	apiErr.RequestID = errResp.RequestID
	return apiErr
}
