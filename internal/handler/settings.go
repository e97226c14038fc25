package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type SettingsHandler struct {
	Repo repository.SettingsRepository
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.update)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload(*s))
}

func (h SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessName    string `json:"businessName"`
		BusinessAddress string `json:"businessAddress"`
		BusinessPhone   string `json:"businessPhone"`
		CurrencyCode    string `json:"currencyCode"`
		LoyaltyEarnRate string `json:"loyaltyEarnRate"`
		ReceiptFooter   string `json:"receiptFooter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rate := decimal.Zero
	if req.LoyaltyEarnRate != "" {
		parsed, err := decimal.NewFromString(req.LoyaltyEarnRate)
		if err != nil || parsed.IsNegative() {
			writeError(w, http.StatusBadRequest, "loyaltyEarnRate must be a non-negative decimal")
			return
		}
		rate = parsed
	}
	s, err := h.Repo.Save(r.Context(), domain.Settings{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessPhone:   req.BusinessPhone,
		CurrencyCode:    req.CurrencyCode,
		LoyaltyEarnRate: rate,
		ReceiptFooter:   req.ReceiptFooter,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload(*s))
}

func settingsPayload(s domain.Settings) map[string]any {
	return map[string]any{
		"businessName":    s.BusinessName,
		"businessAddress": s.BusinessAddress,
		"businessPhone":   s.BusinessPhone,
		"currencyCode":    s.CurrencyCode,
		"loyaltyEarnRate": s.LoyaltyEarnRate.String(),
		"receiptFooter":   s.ReceiptFooter,
	}
}
