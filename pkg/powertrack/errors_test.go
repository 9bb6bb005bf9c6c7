package powertrack_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()
	t.Run("with status code", func(t *testing.T) {
		t.Parallel()

		err := &powertrack.APIError{
			StatusCode: http.StatusNotFound,
			Message:    "resource not found",
		}

		assert.Equal(t, "resource not found (status: 404)", err.Error())
	})

	t.Run("without status code", func(t *testing.T) {
		t.Parallel()

		err := &powertrack.APIError{Message: "something went wrong"}

		assert.Equal(t, "something went wrong", err.Error())
	})
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &powertrack.TransportError{Cause: cause}

	assert.Equal(t, "request failed: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, powertrack.IsTransport(err))
	assert.True(t, powertrack.IsTransport(fmt.Errorf("doing request: %w", err)))
	assert.False(t, powertrack.IsTransport(cause))
}

func TestStatusPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		predicate  func(error) bool
		expected   bool
	}{
		{"401 is authentication failure", http.StatusUnauthorized, powertrack.IsAuthenticationFailed, true},
		{"403 is not authentication failure", http.StatusForbidden, powertrack.IsAuthenticationFailed, false},
		{"403 is forbidden", http.StatusForbidden, powertrack.IsForbidden, true},
		{"404 is not forbidden", http.StatusNotFound, powertrack.IsForbidden, false},
		{"404 is not found", http.StatusNotFound, powertrack.IsNotFound, true},
		{"500 is not not-found", http.StatusInternalServerError, powertrack.IsNotFound, false},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := &powertrack.APIError{StatusCode: testCase.statusCode, Message: "test"}

			assert.Equal(t, testCase.expected, testCase.predicate(err))
		})
	}
}

func TestStatusPredicates_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("getting site config: %w", &powertrack.APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "authentication failed",
	})

	assert.True(t, powertrack.IsAuthenticationFailed(err))
}

func TestStatusPredicates_NonAPIError(t *testing.T) {
	t.Parallel()

	err := errors.New("plain error")

	assert.False(t, powertrack.IsAuthenticationFailed(err))
	assert.False(t, powertrack.IsForbidden(err))
	assert.False(t, powertrack.IsNotFound(err))
}

func TestIsAPIError(t *testing.T) {
	t.Parallel()
	t.Run("returns the typed error", func(t *testing.T) {
		t.Parallel()

		original := &powertrack.APIError{StatusCode: http.StatusBadGateway, Message: "API request failed"}
		wrapped := fmt.Errorf("listing hardware: %w", original)

		apiErr, ok := powertrack.IsAPIError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("transport errors do not match", func(t *testing.T) {
		t.Parallel()

		err := &powertrack.TransportError{Cause: errors.New("dial tcp: timeout")}

		apiErr, ok := powertrack.IsAPIError(err)
		assert.False(t, ok)
		assert.Nil(t, apiErr)
	})
}
