package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed backend call: the HTTP status, the backend's error code
// and its human message, plus any transport error underneath.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		if e.Status != 0 {
			return fmt.Sprintf("%s (%d)", e.Message, e.Status)
		}
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatusCode lets retry helpers classify the error
func (e *Error) HTTPStatusCode() int { return e.Status }

// CodeTransport marks failures that never produced an HTTP response
const CodeTransport = "transport_error"

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

func IsNotFound(err error) bool     { return StatusOf(err) == http.StatusNotFound }
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusOf(err) == http.StatusForbidden }

// IsUnavailable reports whether the backend could not be reached or failed
// on its side, the cases where a cached copy is a reasonable substitute.
func IsUnavailable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == CodeTransport || e.Status >= http.StatusInternalServerError
}
