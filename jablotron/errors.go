package jablotron

import "errors"

// Domain-specific errors for Jablotron Cloud operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConfiguration is returned by New when a required field is missing.
	// Local and non-retryable; no network call is attempted.
	ErrConfiguration = errors.New("jablotron: invalid configuration")

	// ErrAuthentication is returned when the cloud rejects the login
	// credentials. Not retried internally.
	ErrAuthentication = errors.New("jablotron: authentication failed")

	// ErrNotAuthenticated is returned when a data or control call is made
	// before a successful PerformLogin. No network call is attempted.
	ErrNotAuthenticated = errors.New("jablotron: not authenticated, call PerformLogin first")

	// ErrSessionExpired is returned when the cloud rejects the session
	// token and the single automatic re-login attempt also failed.
	// Callers may re-login and retry at their discretion.
	ErrSessionExpired = errors.New("jablotron: session expired")

	// ErrRemote is returned for any non-2xx response that is not an
	// authentication or session failure.
	ErrRemote = errors.New("jablotron: request rejected by cloud")

	// ErrBadRequest is returned when the cloud rejects the request
	// parameters with HTTP 400. Wraps ErrRemote.
	ErrBadRequest = errors.New("jablotron: invalid request parameters")

	// ErrTransport is returned for network-level failures (connection,
	// DNS, timeout). Safe to retry at the caller's discretion.
	ErrTransport = errors.New("jablotron: transport failure")

	// ErrInvalidSession is returned when a login response does not carry
	// a session cookie.
	ErrInvalidSession = errors.New("jablotron: login response missing session id")

	// ErrIncorrectPinCode is returned when the cloud rejects the PIN used
	// to authorise a control action.
	ErrIncorrectPinCode = errors.New("jablotron: incorrect pin code")

	// ErrControlFailed is returned when a control action fails with an
	// error other than a rejected PIN.
	ErrControlFailed = errors.New("jablotron: control action failed")
)
