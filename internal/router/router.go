// Package router assembles the HTTP API surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndaru/contacts-api/internal/address"
	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/contact"
	"github.com/ndaru/contacts-api/internal/csrf"
	"github.com/ndaru/contacts-api/internal/ratelimit"
	"github.com/ndaru/contacts-api/internal/session"
	"github.com/ndaru/contacts-api/internal/user"
)

// Deps carries everything the router wires together.
type Deps struct {
	Responder *apierror.Responder
	Sessions  *session.Manager
	Guard     *csrf.Guard
	Gate      *auth.Gate
	Limiter   *ratelimit.Limiter
	Users     *user.Handler
	Contacts  *contact.Handler
	Addresses *address.Handler
}

// New builds the chi router with all API routes mounted under /api.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(d.Sessions.Middleware(d.Responder))
	r.Use(d.Guard.Issue(d.Responder))

	verify := d.Guard.Verify(d.Responder)
	credentialLimit := ratelimit.Middleware(d.Limiter, ratelimit.ByClientIP(), d.Responder)

	r.Route("/api", func(r chi.Router) {
		r.Get("/csrf-token", d.Guard.TokenHandler(d.Responder))

		// Registration and login share the credential attempt budget.
		r.With(verify, credentialLimit).Post("/users", d.Users.Register)
		r.With(verify, credentialLimit).Post("/users/login", d.Users.Login)

		r.Group(func(r chi.Router) {
			r.Use(d.Gate.RequireAuth)

			r.Get("/users/current", d.Users.Current)
			r.With(verify).Patch("/users/current", d.Users.Update)
			r.With(verify).Delete("/users/logout", d.Users.Logout)

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", d.Contacts.Search)
				r.With(verify).Post("/", d.Contacts.Create)

				r.Route("/{contactID}", func(r chi.Router) {
					r.Get("/", d.Contacts.Get)
					r.With(verify).Put("/", d.Contacts.Update)
					r.With(verify).Delete("/", d.Contacts.Remove)

					r.Route("/addresses", func(r chi.Router) {
						r.Get("/", d.Addresses.List)
						r.With(verify).Post("/", d.Addresses.Create)
						r.Get("/{addressID}", d.Addresses.Get)
						r.With(verify).Put("/{addressID}", d.Addresses.Update)
						r.With(verify).Delete("/{addressID}", d.Addresses.Remove)
					})
				})
			})
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			d.Responder.Error(w, r, apierror.ErrNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			d.Responder.Error(w, r, apierror.New(http.StatusMethodNotAllowed, "Method not allowed"))
		})
	})

	return r
}
