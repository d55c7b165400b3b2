package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/auth"
)

const (
	defaultPage = 1
	defaultSize = 10
	maxSize     = 100
)

// Handler serves the contact CRUD and search endpoints.
type Handler struct {
	contacts Storage
	resp     *apierror.Responder
}

func NewHandler(contacts Storage, resp *apierror.Responder) *Handler {
	return &Handler{contacts: contacts, resp: resp}
}

type contactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (req contactRequest) validate() error {
	if req.FirstName == "" {
		return apierror.New(http.StatusBadRequest, "first_name is required")
	}
	if len(req.FirstName) > 100 || len(req.LastName) > 100 || len(req.Email) > 200 {
		return apierror.New(http.StatusBadRequest, "field length exceeds limit")
	}
	if len(req.Phone) > 20 {
		return apierror.New(http.StatusBadRequest, "phone must not exceed 20 characters")
	}
	return nil
}

// Create handles POST /api/contacts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	c := &Contact{
		Username:  principal.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	if err := h.contacts.Create(r.Context(), c); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, c)
}

// Get handles GET /api/contacts/{contactID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, err := contactID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	c, err := h.contacts.GetByID(r.Context(), principal.Username, id)
	if err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, c)
}

// Update handles PUT /api/contacts/{contactID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, err := contactID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	c, err := h.contacts.GetByID(r.Context(), principal.Username, id)
	if err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	c.FirstName = req.FirstName
	c.LastName = req.LastName
	c.Email = req.Email
	c.Phone = req.Phone

	if err := h.contacts.Update(r.Context(), c); err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, c)
}

// Remove handles DELETE /api/contacts/{contactID}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, err := contactID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.contacts.Delete(r.Context(), principal.Username, id); err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, "OK")
}

// Search handles GET /api/contacts with name/email/phone filters and
// page/size pagination.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	f := Filter{
		Name:  r.URL.Query().Get("name"),
		Email: r.URL.Query().Get("email"),
		Phone: r.URL.Query().Get("phone"),
		Page:  queryInt(r, "page", defaultPage),
		Size:  queryInt(r, "size", defaultSize),
	}
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Size < 1 || f.Size > maxSize {
		f.Size = defaultSize
	}

	contacts, total, err := h.contacts.Search(r.Context(), principal.Username, f)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	totalPages := (total + f.Size - 1) / f.Size

	h.resp.JSONPaged(w, http.StatusOK, contacts, map[string]any{
		"page":       f.Page,
		"total_page": totalPages,
		"total_item": total,
	})
}

func (h *Handler) respondStorageErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		h.resp.Error(w, r, apierror.New(http.StatusNotFound, "Contact not found"))
		return
	}
	h.resp.Error(w, r, err)
}

func contactID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		return uuid.Nil, apierror.New(http.StatusNotFound, "Contact not found")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
