// Package config aggregates application configuration from environment
// variables, optionally seeded from .env files.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ndaru/contacts-api/internal/httpserver"
	"github.com/ndaru/contacts-api/internal/logger"
	"github.com/ndaru/contacts-api/internal/pg"
	"github.com/ndaru/contacts-api/internal/ratelimit"
	"github.com/ndaru/contacts-api/internal/redis"
	"github.com/ndaru/contacts-api/internal/session"
)

const EnvProduction = "production"

var ErrNoCookieSecrets = errors.New("config.cookie_secrets_required")

// Config is the full application configuration.
type Config struct {
	Port        string `env:"APP_PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	// CookieSecrets is a comma-separated list of HMAC keys; the first
	// signs new cookies, the rest stay valid for rotation.
	CookieSecrets string `env:"COOKIE_SECRETS,required"`

	// SessionStore selects the session backend: "redis" or "memory".
	SessionStore string `env:"SESSION_STORE" envDefault:"redis"`

	HTTP      httpserver.Config
	Logger    logger.Config
	Session   session.Config
	RateLimit ratelimit.Config
	PG        pg.Config
	Redis     redis.Config
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	if len(cfg.ParsedCookieSecrets()) == 0 {
		return Config{}, ErrNoCookieSecrets
	}

	// Production always runs behind TLS; cookies follow.
	if cfg.IsProduction() {
		cfg.Session.SecureCookies = true
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ParsedCookieSecrets splits the comma-separated secret list.
func (c Config) ParsedCookieSecrets() []string {
	parts := strings.Split(c.CookieSecrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}
