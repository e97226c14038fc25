package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
)

type BranchHandler struct {
	Repo repository.BranchRepository
}

func (h BranchHandler) RegisterRoutes(r chi.Router) {
	r.Get("/branches", h.list)
	r.Post("/branches", h.create)
	r.Put("/branches/{id}", h.update)
	r.Delete("/branches/{id}", h.remove)
}

type branchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (h BranchHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, b := range items {
		resp = append(resp, branchPayload(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BranchHandler) create(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	b, err := h.Repo.Create(r.Context(), req.Name, req.Address, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, branchPayload(*b))
}

func (h BranchHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req branchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	b, err := h.Repo.Update(r.Context(), id, req.Name, req.Address, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branchPayload(*b))
}

func (h BranchHandler) remove(w http.ResponseWriter, r *http.Request) {
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

func branchPayload(b domain.Branch) map[string]any {
	return map[string]any{
		"id":      b.ID,
		"name":    b.Name,
		"address": b.Address,
		"phone":   b.Phone,
	}
}
