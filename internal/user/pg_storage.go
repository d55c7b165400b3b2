package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PGStorage implements Storage on PostgreSQL.
type PGStorage struct {
	pool *pgxpool.Pool
}

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.Username, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrUsernameTaken
		}
		return err
	}

	return nil
}

func (s *PGStorage) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT username, name, password_hash, created_at, updated_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (s *PGStorage) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET name = $2, password_hash = $3, updated_at = $4
		 WHERE username = $1`,
		u.Username, u.Name, u.PasswordHash, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
