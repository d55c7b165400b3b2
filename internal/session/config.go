package session

import "time"

// Config holds session manager configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TTL is the session time-to-live, refreshed on activity.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// TouchInterval is the minimum time between rolling refreshes.
	// Throttles store writes on busy sessions; 0 refreshes every request.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`

	// CleanupInterval is how often the expired-session sweep runs
	// (0 disables the sweep; Redis-backed stores expire natively).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"2m"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		TTL:             time.Hour,
		TouchInterval:   5 * time.Minute,
		CleanupInterval: 2 * time.Minute,
		SecureCookies:   false,
	}
}
