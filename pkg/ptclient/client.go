// Package ptclient provides the main entry point for creating PowerTrack API clients
package ptclient

import (
	"os"
	"strings"

	"github.com/sunwatt-io/powertrack/internal/auth"
	"github.com/sunwatt-io/powertrack/internal/client"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// New creates a new PowerTrack API client.
func New(config *powertrack.Config) (powertrack.Client, error) {
	if config == nil {
		return nil, powertrack.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, powertrack.ErrEndpointRequired
	}

	if config.Cookie == "" {
		return nil, powertrack.ErrCookieRequired
	}

	// Normalize endpoint
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	config.Endpoint = endpoint

	return client.New(config)
}

// NewFromEnv creates a client from POWERTRACK_BASE_URL, POWERTRACK_COOKIE,
// and POWERTRACK_XSRF_TOKEN. The environment is read once here.
func NewFromEnv() (powertrack.Client, error) {
	endpoint := os.Getenv(auth.EnvBaseURL)
	if endpoint == "" {
		return nil, powertrack.ErrEndpointRequired
	}

	return New(&powertrack.Config{
		Endpoint:  endpoint,
		Cookie:    os.Getenv(auth.EnvCookie),
		XSRFToken: os.Getenv(auth.EnvXSRFToken),
	})
}

// NewWithSession creates a client from an endpoint and session credentials.
func NewWithSession(endpoint, cookie, xsrfToken string) (powertrack.Client, error) {
	return New(&powertrack.Config{
		Endpoint:  endpoint,
		Cookie:    cookie,
		XSRFToken: xsrfToken,
	})
}
