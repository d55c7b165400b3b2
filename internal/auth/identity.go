package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ndaru/contacts-api/internal/session"
)

// Credentials is the stored credential record for a user.
type Credentials struct {
	Username     string
	Name         string
	PasswordHash string
}

// CredentialSource looks up stored credentials by username.
// Implementations return ErrUnknownUser for absent usernames.
type CredentialSource interface {
	Credentials(ctx context.Context, username string) (*Credentials, error)
}

// Identity orchestrates login and logout. Login runs a fixed sequence:
// verify credentials, regenerate the session id, bind the principal.
// Each step's failure leaves the session unauthenticated; a partially
// bound principal is never observable.
type Identity struct {
	sessions *session.Manager
	source   CredentialSource
	hasher   PasswordHasher
	log      *slog.Logger
}

func NewIdentity(sessions *session.Manager, source CredentialSource, hasher PasswordHasher, log *slog.Logger) *Identity {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Identity{
		sessions: sessions,
		source:   source,
		hasher:   hasher,
		log:      log,
	}
}

// Login verifies the submitted credentials and, on success, swaps the
// session id (anti-fixation) and binds the principal. The regenerated
// session is returned so the caller can issue a fresh CSRF token on
// it. Credential misses of either kind surface as
// ErrInvalidCredentials; session failures propagate as-is for the
// caller to map to a 500.
func (i *Identity) Login(ctx context.Context, w http.ResponseWriter, current *session.Session, username, password string) (*session.Principal, *session.Session, error) {
	creds, err := i.source.Credentials(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := i.hasher.Compare(creds.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	fresh, err := i.sessions.Regenerate(ctx, w, current)
	if err != nil {
		return nil, nil, err
	}

	principal := &session.Principal{
		Username: creds.Username,
		Name:     creds.Name,
	}

	if err := i.sessions.BindPrincipal(ctx, fresh, principal); err != nil {
		return nil, nil, err
	}

	i.log.InfoContext(ctx, "user logged in", slog.String("username", creds.Username))
	return principal, fresh, nil
}

// Logout destroys the session. Always succeeds from the caller's
// perspective; store cleanup failures are logged inside the manager
// and covered by the TTL sweep.
func (i *Identity) Logout(ctx context.Context, w http.ResponseWriter, sess *session.Session) {
	username := ""
	if sess.IsAuthenticated() {
		username = sess.Principal.Username
	}

	i.sessions.Destroy(ctx, w, sess)

	i.log.InfoContext(ctx, "user logged out", slog.String("username", username))
}
