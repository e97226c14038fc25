package handler

import (
	"net/http"

	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	Repo repository.UserRepository
}

func (h UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.list)
}

func (h UserHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), parseLimitQuery(r, 200))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, u := range items {
		resp = append(resp, map[string]any{
			"id":       u.ID,
			"name":     u.Name,
			"email":    u.Email,
			"phone":    u.Phone,
			"branchId": u.BranchID,
			"role":     string(u.Role),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
