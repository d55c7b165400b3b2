package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/csrf"
	"github.com/ndaru/contacts-api/internal/session"
)

const maxFieldLength = 100

// Handler serves registration, login, profile, and logout endpoints.
type Handler struct {
	users    Storage
	identity *auth.Identity
	guard    *csrf.Guard
	hasher   auth.PasswordHasher
	resp     *apierror.Responder
}

func NewHandler(users Storage, identity *auth.Identity, guard *csrf.Guard, hasher auth.PasswordHasher, resp *apierror.Responder) *Handler {
	return &Handler{
		users:    users,
		identity: identity,
		guard:    guard,
		hasher:   hasher,
		resp:     resp,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type profileResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Register handles POST /api/users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" || req.Name == "" {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "username, password and name are required"))
		return
	}
	if len(req.Username) > maxFieldLength || len(req.Password) > maxFieldLength || len(req.Name) > maxFieldLength {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "field length must not exceed 100 characters"))
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	u := &User{
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Username already exists"))
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, profileResponse{Username: u.Username, Name: u.Name})
}

// Login handles POST /api/users/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "username and password are required"))
		return
	}

	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.resp.Error(w, r, apierror.ErrInternal)
		return
	}

	principal, fresh, err := h.identity.Login(r.Context(), w, sess, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.resp.Error(w, r, apierror.ErrInvalidCredentials)
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	// The regenerated session dropped the old CSRF token; mirror a new
	// one now so the client's next mutation verifies.
	if err := h.guard.Refresh(r.Context(), w, fresh); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, profileResponse{Username: principal.Username, Name: principal.Name})
}

// Current handles GET /api/users/current.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.resp.Error(w, r, apierror.ErrUnauthorized)
		return
	}

	u, err := h.users.GetByUsername(r.Context(), principal.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.resp.Error(w, r, apierror.New(http.StatusNotFound, "User not found"))
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, profileResponse{Username: u.Username, Name: u.Name})
}

// Update handles PATCH /api/users/current. Name and password are each
// optional; absent fields keep their current value.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.resp.Error(w, r, apierror.ErrUnauthorized)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if len(req.Name) > maxFieldLength || len(req.Password) > maxFieldLength {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "field length must not exceed 100 characters"))
		return
	}

	u, err := h.users.GetByUsername(r.Context(), principal.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.resp.Error(w, r, apierror.New(http.StatusNotFound, "User not found"))
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Password != "" {
		hash, err := h.hasher.Hash(req.Password)
		if err != nil {
			h.resp.Error(w, r, err)
			return
		}
		u.PasswordHash = hash
	}

	if err := h.users.Update(r.Context(), u); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, profileResponse{Username: u.Username, Name: u.Name})
}

// Logout handles DELETE /api/users/logout. Always reports success to
// the client; server-side cleanup failures are logged and swept later.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.resp.Error(w, r, apierror.ErrUnauthorized)
		return
	}

	h.identity.Logout(r.Context(), w, sess)
	h.guard.ClearMirror(w)

	h.resp.JSON(w, http.StatusOK, "Logout successful")
}
