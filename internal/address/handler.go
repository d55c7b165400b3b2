package address

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ndaru/contacts-api/internal/apierror"
	"github.com/ndaru/contacts-api/internal/auth"
	"github.com/ndaru/contacts-api/internal/contact"
)

// Handler serves address endpoints nested under contacts.
type Handler struct {
	addresses Storage
	contacts  contact.Storage
	resp      *apierror.Responder
}

func NewHandler(addresses Storage, contacts contact.Storage, resp *apierror.Responder) *Handler {
	return &Handler{
		addresses: addresses,
		contacts:  contacts,
		resp:      resp,
	}
}

type addressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

func (req addressRequest) validate() error {
	if req.Country == "" {
		return apierror.New(http.StatusBadRequest, "country is required")
	}
	if req.PostalCode == "" {
		return apierror.New(http.StatusBadRequest, "postal_code is required")
	}
	if len(req.Street) > 255 || len(req.City) > 100 || len(req.Province) > 100 || len(req.Country) > 100 || len(req.PostalCode) > 10 {
		return apierror.New(http.StatusBadRequest, "field length exceeds limit")
	}
	return nil
}

// Create handles POST /api/contacts/{contactID}/addresses.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	c, err := h.parentContact(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	a := &Address{
		ContactID:  c.ID,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}

	if err := h.addresses.Create(r.Context(), a); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, a)
}

// Get handles GET /api/contacts/{contactID}/addresses/{addressID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.parentContact(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	id, err := addressID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	a, err := h.addresses.GetByID(r.Context(), c.ID, id)
	if err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, a)
}

// Update handles PUT /api/contacts/{contactID}/addresses/{addressID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	c, err := h.parentContact(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	id, err := addressID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.Error(w, r, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	a, err := h.addresses.GetByID(r.Context(), c.ID, id)
	if err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	a.Street = req.Street
	a.City = req.City
	a.Province = req.Province
	a.Country = req.Country
	a.PostalCode = req.PostalCode

	if err := h.addresses.Update(r.Context(), a); err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, a)
}

// Remove handles DELETE /api/contacts/{contactID}/addresses/{addressID}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	c, err := h.parentContact(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	id, err := addressID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.addresses.Delete(r.Context(), c.ID, id); err != nil {
		h.respondStorageErr(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, "OK")
}

// List handles GET /api/contacts/{contactID}/addresses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	c, err := h.parentContact(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	addresses, err := h.addresses.ListByContact(r.Context(), c.ID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if addresses == nil {
		addresses = []Address{}
	}
	h.resp.JSON(w, http.StatusOK, addresses)
}

// parentContact resolves the {contactID} route param to a contact
// owned by the authenticated user. Cross-user access is a 404.
func (h *Handler) parentContact(r *http.Request) (*contact.Contact, error) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return nil, apierror.ErrUnauthorized
	}

	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		return nil, apierror.New(http.StatusNotFound, "Contact not found")
	}

	c, err := h.contacts.GetByID(r.Context(), principal.Username, id)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			return nil, apierror.New(http.StatusNotFound, "Contact not found")
		}
		return nil, err
	}

	return c, nil
}

func (h *Handler) respondStorageErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		h.resp.Error(w, r, apierror.New(http.StatusNotFound, "Address not found"))
		return
	}
	h.resp.Error(w, r, err)
}

func addressID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		return uuid.Nil, apierror.New(http.StatusNotFound, "Address not found")
	}
	return id, nil
}
