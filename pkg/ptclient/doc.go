// Package ptclient wires configuration, transport, and session
// authentication into a concrete powertrack.Client.
//
// The package normalizes the endpoint (adding https:// when no scheme is
// present and trimming a trailing slash) and validates that a session cookie
// is available before building the client. Use New with an explicit
// powertrack.Config, NewWithSession for the common endpoint+cookie case, or
// NewFromEnv to read credentials from the process environment once at
// construction.
package ptclient
