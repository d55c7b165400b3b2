package auth

import "errors"

var (
	// ErrNoPrincipal indicates the request carried no session or an
	// anonymous one. Maps to 401.
	ErrNoPrincipal = errors.New("auth.no_principal")

	// ErrMalformedPrincipal indicates a session whose principal lacks a
	// username. Distinguished from ErrNoPrincipal for observability;
	// both map to 401.
	ErrMalformedPrincipal = errors.New("auth.malformed_principal")

	// ErrInvalidCredentials indicates a username/password mismatch.
	// Deliberately does not say which one was wrong.
	ErrInvalidCredentials = errors.New("auth.invalid_credentials")

	// ErrUnknownUser is returned by credential sources when the
	// username does not exist. Collapsed into ErrInvalidCredentials
	// before it reaches a response.
	ErrUnknownUser = errors.New("auth.unknown_user")
)
