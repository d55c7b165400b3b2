package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/cookie"
	"github.com/ndaru/contacts-api/internal/session"
)

type mapSource map[string]*auth.Credentials

func (m mapSource) Credentials(_ context.Context, username string) (*auth.Credentials, error) {
	creds, ok := m[username]
	if !ok {
		return nil, auth.ErrUnknownUser
	}
	return creds, nil
}

type identityFixture struct {
	identity *auth.Identity
	sessions *session.Manager
	store    *session.MemoryStore
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	source := mapSource{
		"alice": {Username: "alice", Name: "Alice", PasswordHash: hash},
	}

	cookies, err := cookie.New([]string{"this-is-a-very-long-secret-key-32-chars"})
	require.NoError(t, err)

	store := session.NewMemoryStore()
	sessions := session.NewManager(store, cookies, session.Config{
		CookieName: "sid",
		TTL:        time.Hour,
	}, nil)
	t.Cleanup(func() { _ = sessions.Close() })

	return &identityFixture{
		identity: auth.NewIdentity(sessions, source, hasher, nil),
		sessions: sessions,
		store:    store,
	}
}

func (f *identityFixture) anonymousSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := f.sessions.Ensure(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess
}

func TestIdentity_Login(t *testing.T) {
	t.Parallel()

	t.Run("success swaps session and binds principal", func(t *testing.T) {
		t.Parallel()
		f := newIdentityFixture(t)
		sess := f.anonymousSession(t)
		oldID := sess.ID

		w := httptest.NewRecorder()
		principal, fresh, err := f.identity.Login(context.Background(), w, sess, "alice", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Username)
		assert.Equal(t, "Alice", principal.Name)
		require.NotNil(t, fresh)
		assert.NotEqual(t, oldID, fresh.ID)

		// Anti-fixation: the pre-login id is dead.
		_, err = f.store.Get(context.Background(), oldID)
		assert.ErrorIs(t, err, session.ErrNotFound)

		// Exactly one live record, and it is authenticated.
		require.Equal(t, 1, f.store.Len())
		resolved, err := f.sessions.Resolve(context.Background(), carryCookies(w))
		require.NoError(t, err)
		assert.NotEqual(t, oldID, resolved.ID)
		require.True(t, resolved.IsAuthenticated())
		assert.Equal(t, "alice", resolved.Principal.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		f := newIdentityFixture(t)
		sess := f.anonymousSession(t)
		oldID := sess.ID

		_, _, err := f.identity.Login(context.Background(), httptest.NewRecorder(), sess, "alice", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)

		// Failed login must not disturb the session.
		stored, err := f.store.Get(context.Background(), oldID)
		require.NoError(t, err)
		assert.False(t, stored.IsAuthenticated())
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		f := newIdentityFixture(t)
		sess := f.anonymousSession(t)

		_, _, err := f.identity.Login(context.Background(), httptest.NewRecorder(), sess, "nobody", "correct horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unknown user and bad password are indistinguishable")
	})

	t.Run("stale session rejected", func(t *testing.T) {
		t.Parallel()
		f := newIdentityFixture(t)
		sess := f.anonymousSession(t)

		// A concurrent login already consumed this id.
		_, err := f.sessions.Regenerate(context.Background(), httptest.NewRecorder(), sess)
		require.NoError(t, err)

		_, _, err = f.identity.Login(context.Background(), httptest.NewRecorder(), sess, "alice", "correct horse")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestIdentity_Logout(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture(t)
	sess := f.anonymousSession(t)

	w := httptest.NewRecorder()
	principal, _, err := f.identity.Login(context.Background(), w, sess, "alice", "correct horse")
	require.NoError(t, err)
	require.NotNil(t, principal)

	authed, err := f.sessions.Resolve(context.Background(), carryCookies(w))
	require.NoError(t, err)

	w2 := httptest.NewRecorder()
	f.identity.Logout(context.Background(), w2, authed)

	_, err = f.store.Get(context.Background(), authed.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.False(t, authed.IsAuthenticated())
}

func carryCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			r.AddCookie(c)
		}
	}
	return r
}
