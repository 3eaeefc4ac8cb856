// Package xerrors carries HTTP-aware errors from handlers to the single
// place that writes them.
package xerrors

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Error struct {
	StatusCode int
	Message    string
	Cause      error
	RateLimit  *RateLimitInfo
	Validation *ValidationInfo
}

type RateLimitInfo struct {
	RetryAfter time.Duration
	Reason     string
}

type ValidationInfo struct {
	// Fields maps a JSON field name to its message. "non_field_errors"
	// holds errors that belong to the body as a whole.
	Fields map[string]string
}

func (e *Error) Error() string {
	msg := strconv.Itoa(e.StatusCode) + " " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func Unauthorized(opts ...Option) *Error       { return newErr(http.StatusUnauthorized, opts) }
func Forbidden(opts ...Option) *Error          { return newErr(http.StatusForbidden, opts) }
func BadRequest(opts ...Option) *Error         { return newErr(http.StatusBadRequest, opts) }
func NotFound(opts ...Option) *Error           { return newErr(http.StatusNotFound, opts) }
func Conflict(opts ...Option) *Error           { return newErr(http.StatusConflict, opts) }
func Internal(opts ...Option) *Error           { return newErr(http.StatusInternalServerError, opts) }
func ServiceUnavailable(opts ...Option) *Error { return newErr(http.StatusServiceUnavailable, opts) }
func TooManyRequests(opts ...Option) *Error    { return newErr(http.StatusTooManyRequests, opts) }
func UpgradeRequired(opts ...Option) *Error    { return newErr(http.StatusUpgradeRequired, opts) }

// Validation is a 422 whose body lists the offending fields.
func Validation(fields map[string]string, opts ...Option) *Error {
	e := newErr(http.StatusUnprocessableEntity, opts)
	if e.Message == defaultMessage(http.StatusUnprocessableEntity) {
		e.Message = "validation failed"
	}
	e.Validation = &ValidationInfo{Fields: fields}
	return e
}

func newErr(status int, opts []Option) *Error {
	e := &Error{StatusCode: status, Message: defaultMessage(status)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func defaultMessage(status int) string {
	return strings.ToLower(http.StatusText(status))
}

type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }
func WithCause(err error) Option    { return func(e *Error) { e.Cause = err } }

func WithRetryAfter(d time.Duration) Option {
	return func(e *Error) { e.rateLimit().RetryAfter = d }
}

func WithReason(reason string) Option {
	return func(e *Error) { e.rateLimit().Reason = reason }
}

func (e *Error) rateLimit() *RateLimitInfo {
	if e.RateLimit == nil {
		e.RateLimit = &RateLimitInfo{}
	}
	return e.RateLimit
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
