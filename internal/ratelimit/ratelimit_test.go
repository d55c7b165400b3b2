package ratelimit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/ratelimit"
)

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.Config{Window: time.Minute, Max: 100})

	for i := 1; i <= 100; i++ {
		result := limiter.Allow("10.0.0.1")
		require.True(t, result.Allowed(), "attempt %d must be allowed", i)
		assert.Equal(t, 100-i, result.Remaining)
	}

	// The 101st attempt in the window is rejected.
	result := limiter.Allow("10.0.0.1")
	assert.False(t, result.Allowed())
	assert.Positive(t, result.RetryAfter())
}

func TestLimiter_KeysIndependent(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.Config{Window: time.Minute, Max: 2})

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.1")
	require.False(t, limiter.Allow("10.0.0.1").Allowed())

	assert.True(t, limiter.Allow("10.0.0.2").Allowed())
}

func TestLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.Config{Window: 30 * time.Millisecond, Max: 1})

	require.True(t, limiter.Allow("10.0.0.1").Allowed())
	require.False(t, limiter.Allow("10.0.0.1").Allowed())

	time.Sleep(40 * time.Millisecond)

	assert.True(t, limiter.Allow("10.0.0.1").Allowed(), "counter resets after the window passes")
}

func TestLimiter_Reset(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.Config{Window: time.Minute, Max: 1})

	require.True(t, limiter.Allow("10.0.0.1").Allowed())
	require.False(t, limiter.Allow("10.0.0.1").Allowed())

	limiter.Reset("10.0.0.1")
	assert.True(t, limiter.Allow("10.0.0.1").Allowed())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.Config{Window: time.Minute, Max: 2})
	resp := apierror.NewResponder(nil, false)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := ratelimit.Middleware(limiter, ratelimit.ByClientIP(), resp)(next)

	do := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		r.RemoteAddr = "192.0.2.7:54321"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	w := do()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	w = do()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Positive(t, retryAfter)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Too many requests, please try again later", body["errors"])
}

func TestMiddleware_KeyedByForwardedFor(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(ratelimit.Config{Window: time.Minute, Max: 1})
	resp := apierror.NewResponder(nil, false)

	handler := ratelimit.Middleware(limiter, ratelimit.ByClientIP(), resp)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	do := func(forwardedFor string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		r.RemoteAddr = "127.0.0.1:9999"
		r.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusNoContent, do("203.0.113.5"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.5"))
	assert.Equal(t, http.StatusNoContent, do("203.0.113.6"), "different client unaffected")
}
