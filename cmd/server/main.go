package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ndaru/contacts-api/internal/address"
	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/config"
	"github.com/ndaru/contacts-api/internal/contact"
	"github.com/ndaru/contacts-api/internal/cookie"
	"github.com/ndaru/contacts-api/internal/csrf"
	"github.com/ndaru/contacts-api/internal/httpserver"
	"github.com/ndaru/contacts-api/internal/logger"
	"github.com/ndaru/contacts-api/internal/pg"
	"github.com/ndaru/contacts-api/internal/ratelimit"
	"github.com/ndaru/contacts-api/internal/redis"
	"github.com/ndaru/contacts-api/internal/router"
	"github.com/ndaru/contacts-api/internal/session"
	"github.com/ndaru/contacts-api/internal/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewFromConfig(cfg.Logger, "contacts-api")
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	var store session.Store
	if cfg.SessionStore == "memory" {
		store = session.NewMemoryStore()
	} else {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		store = session.NewRedisStore(client)
	}

	cookies, err := cookie.New(cfg.ParsedCookieSecrets(), cookie.WithSecure(cfg.Session.SecureCookies))
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, cookies, cfg.Session, log)
	defer sessions.Close()

	resp := apierror.NewResponder(log, !cfg.IsProduction())
	guard := csrf.NewGuard(sessions, cookies, cfg.Session.SecureCookies)
	gate := auth.NewGate(resp)
	limiter := ratelimit.NewLimiter(cfg.RateLimit)

	users := user.NewPGStorage(pool)
	hasher := auth.NewBcryptHasher(0)
	identity := auth.NewIdentity(sessions, user.NewCredentialAdapter(users), hasher, log)

	handler := router.New(router.Deps{
		Responder: resp,
		Sessions:  sessions,
		Guard:     guard,
		Gate:      gate,
		Limiter:   limiter,
		Users:     user.NewHandler(users, identity, guard, hasher, resp),
		Contacts:  contact.NewHandler(contact.NewPGStorage(pool), resp),
		Addresses: address.NewHandler(address.NewPGStorage(pool), contact.NewPGStorage(pool), resp),
	})

	srv := httpserver.New(":"+cfg.Port, handler, cfg.HTTP, log)
	return srv.Run(ctx)
}
