package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	Repo repository.CategoryRepository
}

func (h CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.list)
	r.Post("/categories", h.create)
	r.Put("/categories/{id}", h.update)
	r.Delete("/categories/{id}", h.remove)
}

func (h CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, map[string]any{"id": c.ID, "name": c.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	c, err := h.Repo.Create(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": c.ID, "name": c.Name})
}

func (h CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	c, err := h.Repo.Update(r.Context(), id, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": c.ID, "name": c.Name})
}

func (h CategoryHandler) remove(w http.ResponseWriter, r *http.Request) {
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

type BrandHandler struct {
	Repo repository.BrandRepository
}

func (h BrandHandler) RegisterRoutes(r chi.Router) {
	r.Get("/brands", h.list)
	r.Post("/brands", h.create)
	r.Put("/brands/{id}", h.update)
	r.Delete("/brands/{id}", h.remove)
}

func (h BrandHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, b := range items {
		resp = append(resp, map[string]any{"id": b.ID, "name": b.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BrandHandler) create(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	b, err := h.Repo.Create(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": b.ID, "name": b.Name})
}

func (h BrandHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	b, err := h.Repo.Update(r.Context(), id, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": b.ID, "name": b.Name})
}

func (h BrandHandler) remove(w http.ResponseWriter, r *http.Request) {
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

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return "", false
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return "", false
	}
	return req.Name, true
}
