package handler

import (
	"net/http"
	"strconv"

	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	Repo repository.NotificationRepository
}

func (h NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Post("/notifications/{id}/read", h.markRead)
}

func (h NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	items, err := h.Repo.List(r.Context(), unreadOnly, parseLimitQuery(r, 100))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, n := range items {
		resp = append(resp, map[string]any{
			"id":        n.ID,
			"branchId":  n.BranchID,
			"title":     n.Title,
			"message":   n.Message,
			"type":      string(n.Type),
			"createdAt": n.CreatedAt,
			"readAt":    n.ReadAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.MarkRead(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
