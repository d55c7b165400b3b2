package session

import (
	"net/http"

	"github.com/ndaru/contacts-api/internal/apierror"
)

// Middleware resolves or creates the request session and publishes it
// into the request context. Store unavailability is fatal for the
// request and surfaces as a 500.
func (m *Manager) Middleware(resp *apierror.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Ensure(r.Context(), w, r)
			if err != nil {
				resp.Error(w, r, apierror.ErrInternal.WithCause(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
