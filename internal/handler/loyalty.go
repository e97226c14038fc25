package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/service"
	"github.com/go-chi/chi/v5"
)

type LoyaltyHandler struct {
	Service *service.LoyaltyService
}

func (h LoyaltyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers/{id}/loyalty", h.account)
	r.Get("/customers/{id}/loyalty/transactions", h.transactions)
	r.Post("/customers/{id}/loyalty/earn", h.earn)
	r.Post("/customers/{id}/loyalty/redeem", h.redeem)
	r.Post("/customers/{id}/loyalty/adjust", h.adjust)
	r.Post("/customers/{id}/loyalty/reset", h.reset)
	r.Post("/sales/{id}/loyalty", h.processSale)
}

func (h LoyaltyHandler) account(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	account, err := h.Service.Account(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountPayload(account))
}

func (h LoyaltyHandler) transactions(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.Service.Transactions(r.Context(), customerID, parseLimitQuery(r, 100))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, t := range items {
		resp = append(resp, map[string]any{
			"id":           t.ID,
			"type":         string(t.Type),
			"points":       t.Points,
			"balanceAfter": t.BalanceAfter,
			"reason":       t.Reason,
			"reference":    t.Ref.String(),
			"createdAt":    t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type loyaltyMutationRequest struct {
	Points int64  `json:"points"`
	Reason string `json:"reason"`
}

func (h LoyaltyHandler) earn(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(customerID int64, req loyaltyMutationRequest) (*domain.LoyaltyAccount, error) {
		return h.Service.Earn(r.Context(), customerID, req.Points, req.Reason, domain.ManualRef())
	})
}

func (h LoyaltyHandler) redeem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(customerID int64, req loyaltyMutationRequest) (*domain.LoyaltyAccount, error) {
		return h.Service.Redeem(r.Context(), customerID, req.Points, req.Reason, domain.ManualRef())
	})
}

func (h LoyaltyHandler) adjust(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(customerID int64, req loyaltyMutationRequest) (*domain.LoyaltyAccount, error) {
		return h.Service.Adjust(r.Context(), customerID, req.Points, req.Reason)
	})
}

func (h LoyaltyHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(customerID int64, req loyaltyMutationRequest) (*domain.LoyaltyAccount, error) {
		return h.Service.Reset(r.Context(), customerID, req.Reason)
	})
}

func (h LoyaltyHandler) mutate(w http.ResponseWriter, r *http.Request,
	fn func(customerID int64, req loyaltyMutationRequest) (*domain.LoyaltyAccount, error)) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req loyaltyMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := fn(customerID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountPayload(account))
}

func (h LoyaltyHandler) processSale(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	account, err := h.Service.ProcessSalePoints(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountPayload(account))
}

func accountPayload(a *domain.LoyaltyAccount) map[string]any {
	return map[string]any{
		"customerId":    a.CustomerID,
		"pointsBalance": a.PointsBalance,
		"totalEarned":   a.TotalEarned,
		"totalRedeemed": a.TotalRedeemed,
	}
}
