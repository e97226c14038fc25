package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
)

type contactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (req contactRequest) toInput() repository.ContactInput {
	return repository.ContactInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
}

type SupplierHandler struct {
	Repo repository.SupplierRepository
}

func (h SupplierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/suppliers", h.list)
	r.Post("/suppliers", h.create)
	r.Put("/suppliers/{id}", h.update)
	r.Delete("/suppliers/{id}", h.remove)
}

func (h SupplierHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), r.URL.Query().Get("search"), parseLimitQuery(r, 200))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, map[string]any{
			"id":      s.ID,
			"name":    s.Name,
			"phone":   s.Phone,
			"email":   s.Email,
			"address": s.Address,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SupplierHandler) create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s, err := h.Repo.Create(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": s.ID, "name": s.Name})
}

func (h SupplierHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s, err := h.Repo.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": s.ID, "name": s.Name})
}

func (h SupplierHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.SoftDelete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Get("/customers/{id}", h.get)
	r.Post("/customers", h.create)
	r.Put("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.remove)
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), r.URL.Query().Get("search"), parseLimitQuery(r, 200))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, customerPayload(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerPayload(*c))
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c, err := h.Repo.Create(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerPayload(*c))
}

func (h CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := h.Repo.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerPayload(*c))
}

func (h CustomerHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.SoftDelete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func customerPayload(c domain.Customer) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"name":    c.Name,
		"phone":   c.Phone,
		"email":   c.Email,
		"address": c.Address,
	}
}
