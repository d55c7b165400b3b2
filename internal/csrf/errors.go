package csrf

import "errors"

var (
	// ErrTokenMissing is returned when the session has no token or the
	// request did not supply one.
	ErrTokenMissing = errors.New("csrf.token_missing")

	// ErrTokenMismatch is returned when the supplied token does not
	// equal the session's token.
	ErrTokenMismatch = errors.New("csrf.token_mismatch")

	// ErrTokenGeneration is returned when secure random generation fails.
	ErrTokenGeneration = errors.New("csrf.token_generation_failed")
)
