package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

func (s *PGStorage) Create(ctx context.Context, c *Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, username, first_name, last_name, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Username, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *PGStorage) GetByID(ctx context.Context, username string, id uuid.UUID) (*Contact, error) {
	var c Contact
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, first_name, last_name, email, phone, created_at, updated_at
		 FROM contacts WHERE username = $1 AND id = $2`,
		username, id,
	).Scan(&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (s *PGStorage) Update(ctx context.Context, c *Contact) error {
	c.UpdatedAt = time.Now()

	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts SET first_name = $3, last_name = $4, email = $5, phone = $6, updated_at = $7
		 WHERE username = $1 AND id = $2`,
		c.Username, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PGStorage) Delete(ctx context.Context, username string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM contacts WHERE username = $1 AND id = $2`,
		username, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PGStorage) Search(ctx context.Context, username string, f Filter) ([]Contact, int, error) {
	where := []string{"username = $1"}
	args := []any{username}

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args)))
	}
	if f.Email != "" {
		args = append(args, "%"+f.Email+"%")
		where = append(where, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if f.Phone != "" {
		args = append(args, "%"+f.Phone+"%")
		where = append(where, fmt.Sprintf("phone ILIKE $%d", len(args)))
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM contacts WHERE "+clause, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Size, (f.Page-1)*f.Size)
	query := fmt.Sprintf(
		`SELECT id, username, first_name, last_name, email, phone, created_at, updated_at
		 FROM contacts WHERE %s ORDER BY created_at LIMIT $%d OFFSET $%d`,
		clause, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts := make([]Contact, 0, f.Size)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}
