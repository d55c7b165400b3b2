package apierror_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndaru/contacts-api/internal/apierror"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestResponder_JSON(t *testing.T) {
	t.Parallel()

	resp := apierror.NewResponder(nil, false)

	w := httptest.NewRecorder()
	resp.JSON(w, http.StatusOK, map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", data["username"])
}

func TestResponder_JSONPaged(t *testing.T) {
	t.Parallel()

	resp := apierror.NewResponder(nil, false)

	w := httptest.NewRecorder()
	resp.JSONPaged(w, http.StatusOK, []string{}, map[string]any{
		"page":       1,
		"total_page": 0,
		"total_item": 0,
	})

	body := decode(t, w)
	paging, ok := body["paging"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, paging["page"])
}

func TestResponder_Error(t *testing.T) {
	t.Parallel()

	t.Run("taxonomy error", func(t *testing.T) {
		t.Parallel()
		resp := apierror.NewResponder(nil, false)

		w := httptest.NewRecorder()
		resp.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), apierror.ErrUnauthorized)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", decode(t, w)["errors"])
	})

	t.Run("unknown error becomes 500", func(t *testing.T) {
		t.Parallel()
		resp := apierror.NewResponder(nil, false)

		w := httptest.NewRecorder()
		resp.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pool exhausted"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", decode(t, w)["errors"])
	})

	t.Run("cause hidden in production", func(t *testing.T) {
		t.Parallel()
		resp := apierror.NewResponder(nil, false)

		w := httptest.NewRecorder()
		err := apierror.ErrInternal.WithCause(errors.New("dsn leaked"))
		resp.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), err)

		assert.NotContains(t, decode(t, w)["errors"], "dsn leaked")
	})

	t.Run("cause shown in development", func(t *testing.T) {
		t.Parallel()
		resp := apierror.NewResponder(nil, true)

		w := httptest.NewRecorder()
		err := apierror.ErrInternal.WithCause(errors.New("connection refused"))
		resp.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), err)

		assert.Contains(t, decode(t, w)["errors"], "connection refused")
	})
}

func TestAsError(t *testing.T) {
	t.Parallel()

	t.Run("passthrough", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, apierror.ErrForbidden, apierror.AsError(apierror.ErrForbidden))
	})

	t.Run("wrapped", func(t *testing.T) {
		t.Parallel()
		wrapped := apierror.ErrForbidden.WithCause(errors.New("mismatch"))
		got := apierror.AsError(errors.Join(errors.New("outer"), wrapped))
		assert.Equal(t, http.StatusForbidden, got.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		got := apierror.AsError(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, got.Code)
	})
}
