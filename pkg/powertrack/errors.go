package powertrack

import (
	"errors"
	"fmt"
	"net/http"
)

// MaxBodySnippetLength caps the response body excerpt attached to APIError.
const MaxBodySnippetLength = 500

// APIError represents a terminal non-2xx response from the PowerTrack API.
type APIError struct {
	StatusCode  int                    `json:"statusCode"            yaml:"statusCode"`
	Message     string                 `json:"message"               yaml:"message"`
	ContentType string                 `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	BodySnippet string                 `json:"bodySnippet,omitempty" yaml:"bodySnippet,omitempty"`
	Body        map[string]interface{} `json:"body,omitempty"        yaml:"body,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

// TransportError represents a network-level failure where no HTTP status was
// received (connection refused, DNS failure, timeout before response).
type TransportError struct {
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Cause)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrEndpointRequired    = errors.New("endpoint is required")
	ErrCookieRequired      = errors.New("session cookie is required")
	ErrSiteKeyRequired     = errors.New("site key is required")
	ErrHardwareKeyRequired = errors.New("hardware key is required")
	ErrCustomerKeyRequired = errors.New("customer key is required")
	ErrEmptyResponse       = errors.New("empty response from API")
	ErrSiteNotInList       = errors.New("site not found in site list")
	ErrWorkerPanic         = errors.New("worker panicked")
)

// IsAuthenticationFailed checks if the error is a 401 from the API.
func IsAuthenticationFailed(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsAPIError checks whether the error carries an HTTP status from the API and
// returns the typed error when it does.
func IsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// IsTransport checks if the error is a network-level failure.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}
