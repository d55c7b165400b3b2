// Package session implements server-side sessions backed by a
// pluggable store. Session ids are opaque 256-bit tokens delivered in
// a signed cookie; the id is regenerated on authentication to defeat
// session fixation.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Principal is the minimal authenticated identity carried inside a
// session. Absent before login and after logout.
type Principal struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Session is the server-side session record. The store owns persisted
// records; request handling works against the copy resolved from the
// cookie.
type Session struct {
	ID             string     `json:"id"`
	Principal      *Principal `json:"principal,omitempty"`
	CSRFToken      string     `json:"csrf_token,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
}

// New creates an anonymous session with a fresh id and the given TTL.
func New(ttl time.Duration) (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:             id,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		LastActivityAt: now,
	}, nil
}

// IsAuthenticated returns true if a principal is bound to the session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Principal != nil
}

// IsExpired returns true if the session is past its expiry.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Touch extends expiry and records activity.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.ExpiresAt = now.Add(ttl)
	s.LastActivityAt = now
}

// generateID creates a cryptographically secure session id using
// 32 bytes (256 bits) encoded as base64 URL-safe without padding.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
