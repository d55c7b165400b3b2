package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/clientip"
)

// KeyFunc extracts a rate limit key from the request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys attempts on the originating client IP.
func ByClientIP() KeyFunc {
	return clientip.Get
}

// Middleware enforces the limiter on the wrapped routes, exposing the
// standard rate-limit headers. Over-limit requests get a 429 with
// Retry-After.
func Middleware(l *Limiter, keyFunc KeyFunc, resp *apierror.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := l.Allow(keyFunc(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				resp.Error(w, r, apierror.ErrTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
