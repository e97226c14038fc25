package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type SaleReturnHandler struct {
	Service *service.ReturnService
}

func (h SaleReturnHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales/{id}/returns", h.listBySale)
	r.Get("/sales/{id}/returns/validate", h.validate)
	r.Post("/returns", h.create)
	r.Post("/returns/{id}/approve", h.approve)
	r.Post("/returns/{id}/reject", h.reject)
	r.Delete("/returns/{id}", h.remove)
}

func (h SaleReturnHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SaleID       int64  `json:"saleId"`
		ProductID    int64  `json:"productId"`
		Quantity     int    `json:"quantity"`
		Reason       string `json:"reason"`
		RefundAmount string `json:"refundAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	refund := decimal.Zero
	if req.RefundAmount != "" {
		parsed, err := decimal.NewFromString(req.RefundAmount)
		if err != nil {
			writeDomainError(w, &domain.ValidationError{Field: "refundAmount", Reason: "must be a decimal number"})
			return
		}
		refund = parsed
	}
	ret, err := h.Service.CreateReturn(r.Context(), service.CreateReturnInput{
		SaleID:       req.SaleID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
		RefundAmount: refund,
		ProcessedBy:  currentUserID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, returnPayload(ret))
}

func (h SaleReturnHandler) validate(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	productID := parseIDQuery(r, "productId")
	if productID == nil {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}
	elig, err := h.Service.ValidateReturn(r.Context(), saleID, *productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sold":              elig.Sold,
		"alreadyReturned":   elig.AlreadyReturned,
		"availableToReturn": elig.AvailableToReturn,
		"unitPrice":         elig.UnitPrice.String(),
		"maxRefund":         elig.MaxRefund.String(),
	})
}

func (h SaleReturnHandler) listBySale(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.Service.ListBySale(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, returnPayload(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleReturnHandler) approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Approve)
}

func (h SaleReturnHandler) reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Reject)
}

func (h SaleReturnHandler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, returnID int64, processedBy *int64) (*domain.SaleReturn, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	ret, err := fn(r.Context(), id, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnPayload(ret))
}

func (h SaleReturnHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.Delete(r.Context(), id, currentUserID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func returnPayload(ret *domain.SaleReturn) map[string]any {
	return map[string]any{
		"id":           ret.ID,
		"saleId":       ret.SaleID,
		"productId":    ret.ProductID,
		"quantity":     ret.Quantity,
		"reason":       ret.Reason,
		"refundAmount": ret.RefundAmount.String(),
		"status":       string(ret.Status),
		"createdAt":    ret.CreatedAt,
	}
}
