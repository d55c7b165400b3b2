// Package ratelimit throttles credential endpoints with a fixed-window
// counter per client key. State is process-local by design and does
// not survive restarts; multi-process deployments need a shared
// counter, which is a different problem.
package ratelimit

import (
	"sync"
	"time"
)

// Config defines the fixed window parameters.
type Config struct {
	// Window is how long a counting window lasts.
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	// Max is the number of attempts allowed per window.
	Max int `env:"RATE_LIMIT_MAX" envDefault:"100"`
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() Config {
	return Config{
		Window: 15 * time.Minute,
		Max:    100,
	}
}

// Result describes the limiter state after an attempt.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the attempt was within the limit.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the window resets.
// Zero if the attempt was allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

type bucket struct {
	windowStart time.Time
	count       int
}

// Limiter is a fixed-window counter keyed by client.
type Limiter struct {
	mu        sync.Mutex
	cfg       Config
	buckets   map[string]*bucket
	lastPrune time.Time
}

// NewLimiter creates a fixed-window limiter.
func NewLimiter(cfg Config) *Limiter {
	return &Limiter{
		cfg:       cfg,
		buckets:   make(map[string]*bucket),
		lastPrune: time.Now(),
	}
}

// Allow records one attempt for the key and reports whether it fits in
// the current window. The Max-th attempt in a window is allowed; the
// one after it is not.
func (l *Limiter) Allow(key string) Result {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.cfg.Window {
		b = &bucket{windowStart: now}
		l.buckets[key] = b
	}

	b.count++

	return Result{
		Limit:     l.cfg.Max,
		Remaining: l.cfg.Max - b.count,
		ResetAt:   b.windowStart.Add(l.cfg.Window),
	}
}

// Reset clears the counter for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// pruneLocked drops buckets whose window has passed, at most once per
// window so hot paths stay cheap.
func (l *Limiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < l.cfg.Window {
		return
	}
	l.lastPrune = now

	for key, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.cfg.Window {
			delete(l.buckets, key)
		}
	}
}
