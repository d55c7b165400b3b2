// Package user owns user records and the profile/credential HTTP
// handlers. The authentication subsystem consumes it through the
// auth.CredentialSource interface.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/ndaru/contacts-api/internal/auth"
)

var (
	// ErrNotFound is returned when no user exists for the username.
	ErrNotFound = errors.New("user.not_found")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("user.username_taken")
)

// User is a registered account. Username is the natural key.
type User struct {
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Storage defines user persistence.
type Storage interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// CredentialAdapter exposes Storage as an auth.CredentialSource.
type CredentialAdapter struct {
	store Storage
}

func NewCredentialAdapter(store Storage) *CredentialAdapter {
	return &CredentialAdapter{store: store}
}

func (a *CredentialAdapter) Credentials(ctx context.Context, username string) (*auth.Credentials, error) {
	u, err := a.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}

	return &auth.Credentials{
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
	}, nil
}
