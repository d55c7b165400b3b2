// Package csrf implements double-submit-cookie CSRF protection. Each
// session carries exactly one token, generated once and mirrored into
// a client-readable cookie; mutating requests must echo it back in a
// header. The token survives verification unchanged and rotates only
// when the session itself is regenerated or destroyed.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/cookie"
	"github.com/ndaru/contacts-api/internal/session"
)

const (
	// CookieName is the client-readable mirror cookie.
	CookieName = "XSRF-TOKEN"
	// HeaderName carries the token back on mutating requests.
	HeaderName = "X-XSRF-TOKEN"
)

// Guard issues and verifies per-session CSRF tokens.
type Guard struct {
	sessions *session.Manager
	cookies  *cookie.Manager
	secure   bool
}

// NewGuard creates a CSRF guard. secure controls the Secure flag on
// the mirror cookie and should be true in production.
func NewGuard(sessions *session.Manager, cookies *cookie.Manager, secure bool) *Guard {
	return &Guard{
		sessions: sessions,
		cookies:  cookies,
		secure:   secure,
	}
}

// Issue ensures the request's session has a CSRF token and mirrors it
// into the client-readable cookie. Idempotent: an existing token is
// only re-mirrored, never replaced.
func (g *Guard) Issue(resp *apierror.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if sess.CSRFToken == "" {
				token, err := generateToken()
				if err != nil {
					resp.Error(w, r, apierror.ErrInternal.WithCause(err))
					return
				}
				sess.CSRFToken = token
				if err := g.sessions.Save(r.Context(), sess); err != nil {
					resp.Error(w, r, apierror.ErrInternal.WithCause(err))
					return
				}
			}

			g.setMirrorCookie(w, sess.CSRFToken)
			next.ServeHTTP(w, r)
		})
	}
}

// Verify enforces the double-submit check on mutating routes. A
// missing session token, missing header, or mismatch is a 403.
func (g *Guard) Verify(resp *apierror.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := session.FromContext(r.Context())
			if err := verifyToken(sess, r.Header.Get(HeaderName)); err != nil {
				resp.Error(w, r, apierror.ErrForbidden.WithCause(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Refresh mints a new token for the session, persists it, and mirrors
// it in the response. Login calls this after regenerating the session
// so the mirror cookie never lags behind the session's token; without
// it the client's next mutation would fail verification.
func (g *Guard) Refresh(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	token, err := generateToken()
	if err != nil {
		return err
	}

	sess.CSRFToken = token
	if err := g.sessions.Save(ctx, sess); err != nil {
		sess.CSRFToken = ""
		return err
	}

	g.setMirrorCookie(w, token)
	return nil
}

// TokenHandler serves the explicit issuance endpoint: the only place
// the token appears in a JSON body. The response is never cacheable.
func (g *Guard) TokenHandler(resp *apierror.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok || sess.CSRFToken == "" {
			resp.Error(w, r, apierror.ErrInternal.WithCause(ErrTokenMissing))
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		resp.JSON(w, http.StatusOK, map[string]string{
			"csrfToken": sess.CSRFToken,
			"message":   "CSRF token generated successfully",
		})
	}
}

// ClearMirror removes the mirror cookie, used at logout alongside
// session destruction.
func (g *Guard) ClearMirror(w http.ResponseWriter) {
	g.cookies.Delete(w, CookieName,
		cookie.WithHTTPOnly(false),
		cookie.WithSecure(g.secure),
	)
}

func (g *Guard) setMirrorCookie(w http.ResponseWriter, token string) {
	g.cookies.Set(w, CookieName, token,
		cookie.WithHTTPOnly(false),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithSecure(g.secure),
	)
}

// verifyToken runs the full-value comparison between the session's
// stored token and the supplied one. Constant-time so the comparison
// never short-circuits on a prefix.
func verifyToken(sess *session.Session, supplied string) error {
	if sess == nil || sess.CSRFToken == "" || supplied == "" {
		return ErrTokenMissing
	}

	if subtle.ConstantTimeCompare([]byte(sess.CSRFToken), []byte(supplied)) != 1 {
		return ErrTokenMismatch
	}

	return nil
}

// generateToken creates a 32-byte (256-bit) random token encoded as
// base64 URL-safe without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
