package session

import "context"

// Store defines the persistence contract for sessions.
// Implementations must be safe under concurrent access for different
// session ids and provide read-your-write consistency within a request.
type Store interface {
	// Get retrieves a session by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Session, error)

	// Save persists the session with a TTL derived from ExpiresAt.
	Save(ctx context.Context, s *Session) error

	// Delete removes a session by id. Deleting an absent session is not
	// an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions past their expiry and returns the
	// number removed. Stores with native TTL expiry may return (0, nil).
	DeleteExpired(ctx context.Context) (int64, error)
}
