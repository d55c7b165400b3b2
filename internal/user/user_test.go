package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/user"
)

type stubStorage struct {
	user *user.User
	err  error
}

func (s *stubStorage) Create(context.Context, *user.User) error { return s.err }
func (s *stubStorage) Update(context.Context, *user.User) error { return s.err }

func (s *stubStorage) GetByUsername(context.Context, string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestCredentialAdapter(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		adapter := user.NewCredentialAdapter(&stubStorage{user: &user.User{
			Username:     "alice",
			Name:         "Alice",
			PasswordHash: "$2a$04$hash",
		}})

		creds, err := adapter.Credentials(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", creds.Username)
		assert.Equal(t, "$2a$04$hash", creds.PasswordHash)
	})

	t.Run("missing user maps to unknown user", func(t *testing.T) {
		t.Parallel()
		adapter := user.NewCredentialAdapter(&stubStorage{err: user.ErrNotFound})

		_, err := adapter.Credentials(context.Background(), "ghost")
		assert.ErrorIs(t, err, auth.ErrUnknownUser)
	})

	t.Run("storage failure passes through", func(t *testing.T) {
		t.Parallel()
		storeErr := errors.New("pool exhausted")
		adapter := user.NewCredentialAdapter(&stubStorage{err: storeErr})

		_, err := adapter.Credentials(context.Background(), "alice")
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, auth.ErrUnknownUser)
	})
}
