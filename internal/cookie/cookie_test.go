package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndaru/contacts-api/internal/cookie"
)

const (
	testSecret    = "this-is-a-very-long-secret-key-32-chars"
	rotatedSecret = "this-is-another-long-secret-key-32-char"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secrets []string
		wantErr error
	}{
		{"no secrets", nil, cookie.ErrNoSecret},
		{"only empty secrets", []string{"", ""}, cookie.ErrNoSecret},
		{"secret too short", []string{"short"}, cookie.ErrSecretTooShort},
		{"valid secret", []string{testSecret}, nil},
		{"rotation pair", []string{testSecret, rotatedSecret}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cookie.New(tt.secrets)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestManager_SetGet(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Set(w, "plain", "value")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}

	got, err := m.Get(r, "plain")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	_, err = m.Get(r, "absent")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_SignedRoundtrip(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.SetSigned(w, "sid", "session-id-value")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}

	got, err := m.GetSigned(r, "sid")
	require.NoError(t, err)
	assert.Equal(t, "session-id-value", got)
}

func TestManager_SignedTamper(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.SetSigned(w, "sid", "session-id-value")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	t.Run("altered payload", func(t *testing.T) {
		t.Parallel()
		_, sig, ok := strings.Cut(cookies[0].Value, ".")
		require.True(t, ok)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: "dGFtcGVyZWQ." + sig})

		_, err := m.GetSigned(r, "sid")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: "no-separator-here"})

		_, err := m.GetSigned(r, "sid")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		other, err := cookie.New([]string{rotatedSecret})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(cookies[0])

		_, err = other.GetSigned(r, "sid")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})
}

func TestManager_SecretRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{rotatedSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	old.SetSigned(w, "sid", "survives-rotation")

	// New primary key, old one kept for verification.
	rotated, err := cookie.New([]string{testSecret, rotatedSecret})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}

	got, err := rotated.GetSigned(r, "sid")
	require.NoError(t, err)
	assert.Equal(t, "survives-rotation", got)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Delete(w, "sid")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
