package auth

import (
	"errors"
	"os"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrCookieRequired = errors.New("POWERTRACK_COOKIE is not set")
)

// Environment variables read once by NewSessionProviderFromEnv.
const (
	EnvBaseURL   = "POWERTRACK_BASE_URL"
	EnvCookie    = "POWERTRACK_COOKIE"
	EnvXSRFToken = "POWERTRACK_XSRF_TOKEN"
)

// apiVersionMarker is sent on every request so the server selects the same
// API revision the web UI uses.
const apiVersionMarker = "2"

// HeaderProvider supplies the authentication headers for a request. The
// referer is the page URL the request emulates; the API validates it against
// the session.
type HeaderProvider interface {
	AuthHeaders(referer string) (map[string]string, error)
}

// SessionProvider builds headers from a browser session cookie and the
// matching anti-forgery token. Safe for concurrent use.
type SessionProvider struct {
	mutex     sync.RWMutex
	cookie    string
	xsrfToken string
}

// NewSessionProvider creates a provider from explicit credentials.
func NewSessionProvider(cookie, xsrfToken string) *SessionProvider {
	return &SessionProvider{
		cookie:    cookie,
		xsrfToken: xsrfToken,
	}
}

// NewSessionProviderFromEnv creates a provider from the process environment.
// The environment is read once here; later changes have no effect.
func NewSessionProviderFromEnv() (*SessionProvider, error) {
	cookie := os.Getenv(EnvCookie)
	if cookie == "" {
		return nil, ErrCookieRequired
	}

	return NewSessionProvider(cookie, os.Getenv(EnvXSRFToken)), nil
}

// AuthHeaders implements HeaderProvider.
func (p *SessionProvider) AuthHeaders(referer string) (map[string]string, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	headers := map[string]string{
		"Cookie":        p.cookie,
		"Accept":        "application/json",
		"X-Api-Version": apiVersionMarker,
	}

	if p.xsrfToken != "" {
		headers["X-XSRF-TOKEN"] = p.xsrfToken
	}

	if referer != "" {
		headers["Referer"] = referer
	}

	return headers, nil
}

// SetSession replaces the session credentials, e.g. after a re-login.
func (p *SessionProvider) SetSession(cookie, xsrfToken string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.cookie = cookie
	p.xsrfToken = xsrfToken
}
