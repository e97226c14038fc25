package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	Service *service.SaleService
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.list)
	r.Get("/sales/{id}", h.get)
	r.Post("/sales", h.create)
	r.Put("/sales/{id}/payment", h.updatePayment)
	r.Post("/sales/{id}/items", h.addItem)
	r.Delete("/sales/{id}/items/{itemId}", h.removeItem)
	r.Post("/sales/{id}/cancel", h.cancel)
}

type saleLineRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

func (req saleLineRequest) toLine() (service.SaleLine, error) {
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return service.SaleLine{}, &domain.ValidationError{Field: "unitPrice", Reason: "must be a decimal number"}
	}
	return service.SaleLine{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: price,
	}, nil
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID      int64             `json:"branchId"`
		CustomerID    *int64            `json:"customerId"`
		InvoiceNo     string            `json:"invoiceNo"`
		Date          string            `json:"date"`
		Discount      string            `json:"discount"`
		Tax           string            `json:"tax"`
		Paid          string            `json:"paid"`
		PaymentMethod string            `json:"paymentMethod"`
		AwardPoints   bool              `json:"awardPoints"`
		Items         []saleLineRequest `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}
	discount, tax, err := parseMoneyPair(req.Discount, req.Tax)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	paid := decimal.Zero
	if req.Paid != "" {
		paid, err = decimal.NewFromString(req.Paid)
		if err != nil {
			writeDomainError(w, &domain.ValidationError{Field: "paid", Reason: "must be a decimal number"})
			return
		}
	}
	lines := make([]service.SaleLine, 0, len(req.Items))
	for _, it := range req.Items {
		line, err := it.toLine()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		lines = append(lines, line)
	}

	sale, err := h.Service.CreateSale(r.Context(), service.CreateSaleInput{
		BranchID:      req.BranchID,
		CustomerID:    req.CustomerID,
		InvoiceNo:     req.InvoiceNo,
		Date:          date,
		Discount:      discount,
		Tax:           tax,
		Paid:          paid,
		PaymentMethod: req.PaymentMethod,
		Lines:         lines,
		AwardPoints:   req.AwardPoints,
		CreatedBy:     currentUserID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, salePayload(sale))
}

func (h SaleHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	sale, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salePayload(sale))
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Service.List(r.Context(), branchID, parseLimitQuery(r, 100))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, salePayload(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Paid string `json:"paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	paid, err := decimal.NewFromString(req.Paid)
	if err != nil {
		writeDomainError(w, &domain.ValidationError{Field: "paid", Reason: "must be a decimal number"})
		return
	}
	sale, err := h.Service.UpdatePayment(r.Context(), id, paid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salePayload(sale))
}

func (h SaleHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req saleLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	line, err := req.toLine()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sale, err := h.Service.AddItem(r.Context(), id, line, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salePayload(sale))
}

func (h SaleHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid itemId")
		return
	}
	sale, err := h.Service.RemoveItem(r.Context(), id, itemID, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salePayload(sale))
}

func (h SaleHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	sale, err := h.Service.Cancel(r.Context(), id, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salePayload(sale))
}

func salePayload(s *domain.Sale) map[string]any {
	items := make([]map[string]any, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, map[string]any{
			"id":        it.ID,
			"productId": it.ProductID,
			"quantity":  it.Quantity,
			"unitPrice": it.UnitPrice.String(),
			"subtotal":  it.Subtotal.String(),
		})
	}
	return map[string]any{
		"id":            s.ID,
		"branchId":      s.BranchID,
		"customerId":    s.CustomerID,
		"invoiceNo":     s.InvoiceNo,
		"date":          s.Date.Format(dateLayout),
		"totalAmount":   s.TotalAmount.String(),
		"discount":      s.Discount.String(),
		"tax":           s.Tax.String(),
		"grandTotal":    s.GrandTotal.String(),
		"paidAmount":    s.PaidAmount.String(),
		"dueAmount":     s.DueAmount.String(),
		"paymentMethod": s.PaymentMethod,
		"status":        string(s.Status),
		"items":         items,
	}
}
