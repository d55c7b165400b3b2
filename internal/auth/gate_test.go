package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/session"
)

func protectedRequest(sess *session.Session) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	if sess != nil {
		r = r.WithContext(session.WithSession(r.Context(), sess))
	}
	return r
}

func TestGate_RequireAuth(t *testing.T) {
	t.Parallel()

	gate := auth.NewGate(apierror.NewResponder(nil, false))

	var gotPrincipal *session.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := gate.RequireAuth(next)

	newSess := func(p *session.Principal) *session.Session {
		sess, err := session.New(time.Hour)
		require.NoError(t, err)
		sess.Principal = p
		return sess
	}

	t.Run("no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, protectedRequest(nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Unauthorized", body["errors"])
	})

	t.Run("anonymous session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, protectedRequest(newSess(nil)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("principal without username", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, protectedRequest(newSess(&session.Principal{Name: "Nameless"})))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, protectedRequest(newSess(&session.Principal{Username: "alice", Name: "Alice"})))

		require.Equal(t, http.StatusNoContent, w.Code)
		require.NotNil(t, gotPrincipal)
		assert.Equal(t, "alice", gotPrincipal.Username)
	})
}
