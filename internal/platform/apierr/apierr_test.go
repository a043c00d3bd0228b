package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message with status", &Error{Status: 404, Message: "not found"}, "not found (404)"},
		{"message only", &Error{Message: "boom"}, "boom"},
		{"wrapped", &Error{Err: errors.New("dial tcp: refused")}, "dial tcp: refused"},
		{"code only", &Error{Code: "rate_limited"}, "rate_limited"},
		{"status only", &Error{Status: 502}, "api error (502)"},
		{"empty", &Error{}, "api error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
}

func TestClassification(t *testing.T) {
	wrapped := func(e *Error) error { return fmt.Errorf("list requirements: %w", e) }

	assert.True(t, IsNotFound(wrapped(New(http.StatusNotFound, "not_found", nil))))
	assert.True(t, IsUnauthorized(wrapped(New(http.StatusUnauthorized, "", nil))))
	assert.True(t, IsForbidden(wrapped(New(http.StatusForbidden, "", nil))))

	assert.True(t, IsUnavailable(wrapped(New(0, CodeTransport, errors.New("refused")))))
	assert.True(t, IsUnavailable(wrapped(New(http.StatusServiceUnavailable, "", nil))))
	assert.False(t, IsUnavailable(wrapped(New(http.StatusBadRequest, "", nil))))
	assert.False(t, IsUnavailable(errors.New("plain")))

	assert.Equal(t, 0, StatusOf(errors.New("plain")))
	assert.Equal(t, 409, New(409, "", nil).HTTPStatusCode())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := fmt.Errorf("outer: %w", New(0, CodeTransport, cause))
	assert.ErrorIs(t, err, cause)
}
