// Package contact implements contact CRUD and search. Contacts belong
// to the authenticated user; handlers receive the principal from the
// auth gate and never see other users' records.
package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the contact does not exist or belongs
// to another user. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("contact.not_found")

// Contact is an address-book entry owned by a user.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Filter narrows a contact search. Name matches first or last name;
// all matches are case-insensitive substring matches.
type Filter struct {
	Name  string
	Email string
	Phone string
	Page  int
	Size  int
}

// Storage defines contact persistence, always scoped to an owner.
type Storage interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, username string, id uuid.UUID) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, username string, id uuid.UUID) error
	Search(ctx context.Context, username string, f Filter) ([]Contact, int, error)
}
