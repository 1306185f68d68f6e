package domain

import "errors"

var (
	// ErrUnauthorized means the backend explicitly rejected the bearer token.
	// This is the only failure that forces a logout.
	ErrUnauthorized = errors.New("credential rejected")

	// ErrInvalidCredentials means the backend refused an email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBackendUnavailable covers transient failures: network errors,
	// timeouts and 5xx responses. Session state survives these.
	ErrBackendUnavailable = errors.New("identity backend unavailable")

	// ErrCorruptSession means the persisted session could not be decoded.
	ErrCorruptSession = errors.New("corrupt persisted session")
)
