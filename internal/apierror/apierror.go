// Package apierror maps application errors to HTTP responses.
//
// Handlers never format error bodies directly; they hand errors to a
// Responder which renders the stable `{"errors": "..."}` envelope and
// keeps internal causes out of client responses.
package apierror

import (
	"errors"
	"net/http"
)

// Error is an HTTP-mapped application error. Message is safe for
// clients; the wrapped cause is for logs only.
type Error struct {
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an internal cause without changing the
// client-visible message.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// New creates an HTTP-mapped error with the given status and client message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error taxonomy. Credential failures share one message so responses
// never reveal which field was wrong.
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request")
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid username or password")
	ErrInvalidSession     = New(http.StatusUnauthorized, "Invalid session")
	ErrForbidden          = New(http.StatusForbidden, "Invalid CSRF token")
	ErrNotFound           = New(http.StatusNotFound, "Not found")
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "Too many requests, please try again later")
	ErrInternal           = New(http.StatusInternalServerError, "Internal Server Error")
)

// AsError extracts an *Error from err, or wraps it as a 500.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal.WithCause(err)
}
