// Package auth provides the authorization gate for protected routes
// and the identity service orchestrating login and logout against the
// session manager.
package auth

import (
	"context"
	"net/http"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/session"
)

type principalContextKey struct{}

// WithPrincipal adds an authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *session.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal published
// by the gate.
func PrincipalFromContext(ctx context.Context) (*session.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*session.Principal)
	return p, ok
}

// Gate enforces that requests reaching protected handlers carry a
// session with a well-formed principal.
type Gate struct {
	resp *apierror.Responder
}

func NewGate(resp *apierror.Responder) *Gate {
	return &Gate{resp: resp}
}

// RequireAuth rejects requests without an authenticated session (401)
// and publishes the principal into the request context for downstream
// handlers. The two failure reasons carry distinct internal errors but
// share the status code.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok || !sess.IsAuthenticated() {
			g.resp.Error(w, r, apierror.ErrUnauthorized.WithCause(ErrNoPrincipal))
			return
		}

		if sess.Principal.Username == "" {
			g.resp.Error(w, r, apierror.ErrInvalidSession.WithCause(ErrMalformedPrincipal))
			return
		}

		ctx := WithPrincipal(r.Context(), sess.Principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
