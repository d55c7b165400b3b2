// Package address implements addresses nested under contacts. Every
// operation verifies the parent contact belongs to the authenticated
// user before touching address rows.
package address

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the address does not exist under the
// given contact.
var ErrNotFound = errors.New("address.not_found")

// Address is a postal address attached to a contact.
type Address struct {
	ID         uuid.UUID `json:"id"`
	ContactID  uuid.UUID `json:"-"`
	Street     string    `json:"street,omitempty"`
	City       string    `json:"city,omitempty"`
	Province   string    `json:"province,omitempty"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// Storage defines address persistence, scoped to a contact.
type Storage interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, contactID, id uuid.UUID) (*Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, contactID, id uuid.UUID) error
	ListByContact(ctx context.Context, contactID uuid.UUID) ([]Address, error)
}
