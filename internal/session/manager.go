package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ndaru/contacts-api/internal/cookie"
)

// Manager drives the session lifecycle: anonymous creation, cookie
// transport, anti-fixation regeneration on login, principal binding,
// and destruction on logout. All mutations of a given session id are
// serialized through a per-id lock.
type Manager struct {
	store   Store
	cookies *cookie.Manager
	cfg     Config
	locks   *keyedMutex
	log     *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a session manager. If cfg.CleanupInterval is
// positive, a background sweep removes expired records until Close is
// called; stores with native TTL expiry make the sweep a no-op.
func NewManager(store Store, cookies *cookie.Manager, cfg Config, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := &Manager{
		store:   store,
		cookies: cookies,
		cfg:     cfg,
		locks:   newKeyedMutex(),
		log:     log,
		done:    make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go m.sweepLoop()
	}

	return m
}

// Resolve loads the session referenced by the request cookie without
// creating one. Returns ErrNotFound when the cookie is absent or its
// signature does not verify.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Session, error) {
	id, err := m.cookies.GetSigned(r, m.cfg.CookieName)
	if err != nil {
		return nil, ErrNotFound
	}

	return m.store.Get(ctx, id)
}

// Ensure resolves the request's session or creates a new anonymous
// one, setting the session cookie either way. Active sessions get a
// rolling expiry refresh, throttled by TouchInterval.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := m.Resolve(ctx, r)
	if err == nil {
		if time.Since(sess.LastActivityAt) >= m.cfg.TouchInterval {
			sess.Touch(m.cfg.TTL)
			if err := m.store.Save(ctx, sess); err != nil {
				return nil, errors.Join(ErrSaveSession, err)
			}
			m.setCookie(w, sess)
		}
		return sess, nil
	}

	sess, err = New(m.cfg.TTL)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, errors.Join(ErrSaveSession, err)
	}

	m.setCookie(w, sess)
	return sess, nil
}

// Regenerate replaces the session with a fresh anonymous record under
// a new id and deletes the old record; the old id stops resolving once
// this returns successfully. The CSRF token is deliberately not
// carried over. Used only during login, so the new session carries no
// principal yet. A request racing another regeneration or destruction
// of the same id is rejected with ErrNotFound.
func (m *Manager) Regenerate(ctx context.Context, w http.ResponseWriter, current *Session) (*Session, error) {
	unlock := m.locks.Lock(current.ID)
	defer unlock()

	// The record may have been swapped out by a concurrent login while
	// this request waited on the lock.
	if _, err := m.store.Get(ctx, current.ID); err != nil {
		return nil, err
	}

	fresh, err := New(m.cfg.TTL)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, fresh); err != nil {
		return nil, errors.Join(ErrSaveSession, err)
	}

	if err := m.store.Delete(ctx, current.ID); err != nil {
		// Never leave two live records; roll the fresh one back.
		_ = m.store.Delete(ctx, fresh.ID)
		return nil, errors.Join(ErrDeleteSession, err)
	}

	m.setCookie(w, fresh)
	return fresh, nil
}

// BindPrincipal attaches a principal to an already-regenerated session
// and persists it. The caller must not treat the session as
// authenticated unless this returns nil.
func (m *Manager) BindPrincipal(ctx context.Context, sess *Session, principal *Principal) error {
	unlock := m.locks.Lock(sess.ID)
	defer unlock()

	sess.Principal = principal
	if err := m.store.Save(ctx, sess); err != nil {
		sess.Principal = nil
		return errors.Join(ErrSaveSession, err)
	}

	return nil
}

// Destroy removes the session record and clears the session cookie.
// Store failures are logged and the client-visible logout still
// succeeds: the TTL sweep is the eventual-cleanup backstop. On delete
// failure the record is neutralized in place (principal dropped,
// expiry forced) so a replayed cookie cannot authenticate.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) {
	unlock := m.locks.Lock(sess.ID)
	defer unlock()

	if err := m.store.Delete(ctx, sess.ID); err != nil {
		m.log.ErrorContext(ctx, "session delete failed, relying on TTL sweep",
			slog.String("session_id", sess.ID),
			slog.Any("error", err),
		)

		neutralized := *sess
		neutralized.Principal = nil
		neutralized.CSRFToken = ""
		neutralized.ExpiresAt = time.Now()
		if err := m.store.Save(ctx, &neutralized); err != nil {
			m.log.ErrorContext(ctx, "session neutralize failed",
				slog.String("session_id", sess.ID),
				slog.Any("error", err),
			)
		}
	}

	sess.Principal = nil
	sess.CSRFToken = ""
	m.cookies.Delete(w, m.cfg.CookieName, cookie.WithSecure(m.cfg.SecureCookies))
}

// Save persists the session. Exposed for collaborators that mutate
// session state outside the login flow (CSRF token issuance).
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	unlock := m.locks.Lock(sess.ID)
	defer unlock()

	if err := m.store.Save(ctx, sess); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	return nil
}

// Config returns the manager configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// Close stops the background sweep. Safe for repeated calls.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, sess *Session) {
	m.cookies.SetSigned(w, m.cfg.CookieName, sess.ID,
		cookie.WithMaxAge(int(time.Until(sess.ExpiresAt).Seconds())),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithSecure(m.cfg.SecureCookies),
	)
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := m.store.DeleteExpired(ctx)
			cancel()
			if err != nil {
				m.log.Error("expired session sweep failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				m.log.Debug("expired sessions removed", slog.Int64("count", removed))
			}
		case <-m.done:
			return
		}
	}
}
