package address

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStorage implements Storage on PostgreSQL.
type PGStorage struct {
	pool *pgxpool.Pool
}

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, a *Address) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO addresses (id, contact_id, street, city, province, country, postal_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.ContactID, a.Street, a.City, a.Province, a.Country, a.PostalCode, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (s *PGStorage) GetByID(ctx context.Context, contactID, id uuid.UUID) (*Address, error) {
	var a Address
	err := s.pool.QueryRow(ctx,
		`SELECT id, contact_id, street, city, province, country, postal_code, created_at, updated_at
		 FROM addresses WHERE contact_id = $1 AND id = $2`,
		contactID, id,
	).Scan(&a.ID, &a.ContactID, &a.Street, &a.City, &a.Province, &a.Country, &a.PostalCode, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (s *PGStorage) Update(ctx context.Context, a *Address) error {
	a.UpdatedAt = time.Now()

	tag, err := s.pool.Exec(ctx,
		`UPDATE addresses SET street = $3, city = $4, province = $5, country = $6, postal_code = $7, updated_at = $8
		 WHERE contact_id = $1 AND id = $2`,
		a.ContactID, a.ID, a.Street, a.City, a.Province, a.Country, a.PostalCode, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PGStorage) Delete(ctx context.Context, contactID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM addresses WHERE contact_id = $1 AND id = $2`,
		contactID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PGStorage) ListByContact(ctx context.Context, contactID uuid.UUID) ([]Address, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, contact_id, street, city, province, country, postal_code, created_at, updated_at
		 FROM addresses WHERE contact_id = $1 ORDER BY created_at`,
		contactID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.ContactID, &a.Street, &a.City, &a.Province, &a.Country, &a.PostalCode, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}

	return addresses, rows.Err()
}
