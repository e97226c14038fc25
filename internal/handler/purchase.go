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

type PurchaseHandler struct {
	Service *service.PurchaseService
}

func (h PurchaseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/purchases", h.list)
	r.Get("/purchases/{id}", h.get)
	r.Post("/purchases", h.create)
	r.Post("/purchases/{id}/items", h.addItem)
	r.Delete("/purchases/{id}/items/{itemId}", h.removeItem)
	r.Put("/purchases/{id}/payment-status", h.setPaymentStatus)
}

type purchaseLineRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitCost  string `json:"unitCost"`
}

func (req purchaseLineRequest) toLine() (service.PurchaseLine, error) {
	cost, err := decimal.NewFromString(req.UnitCost)
	if err != nil {
		return service.PurchaseLine{}, &domain.ValidationError{Field: "unitCost", Reason: "must be a decimal number"}
	}
	return service.PurchaseLine{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitCost:  cost,
	}, nil
}

func (h PurchaseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SupplierID    int64                 `json:"supplierId"`
		BranchID      int64                 `json:"branchId"`
		InvoiceNo     string                `json:"invoiceNo"`
		Date          string                `json:"date"`
		Discount      string                `json:"discount"`
		Tax           string                `json:"tax"`
		PaymentStatus string                `json:"paymentStatus"`
		Items         []purchaseLineRequest `json:"items"`
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
	lines := make([]service.PurchaseLine, 0, len(req.Items))
	for _, it := range req.Items {
		line, err := it.toLine()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		lines = append(lines, line)
	}

	p, err := h.Service.CreatePurchase(r.Context(), service.CreatePurchaseInput{
		SupplierID:    req.SupplierID,
		BranchID:      req.BranchID,
		InvoiceNo:     req.InvoiceNo,
		Date:          date,
		Discount:      discount,
		Tax:           tax,
		PaymentStatus: domain.PurchasePaymentStatus(req.PaymentStatus),
		Lines:         lines,
		CreatedBy:     currentUserID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchasePayload(p))
}

func (h PurchaseHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchasePayload(p))
}

func (h PurchaseHandler) list(w http.ResponseWriter, r *http.Request) {
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Service.List(r.Context(), branchID, parseLimitQuery(r, 100))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, purchasePayload(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h PurchaseHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req purchaseLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	line, err := req.toLine()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p, err := h.Service.AddItem(r.Context(), id, line, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchasePayload(p))
}

func (h PurchaseHandler) removeItem(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.Service.RemoveItem(r.Context(), id, itemID, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchasePayload(p))
}

func (h PurchaseHandler) setPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.Service.SetPaymentStatus(r.Context(), id, domain.PurchasePaymentStatus(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func purchasePayload(p *domain.Purchase) map[string]any {
	items := make([]map[string]any, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, map[string]any{
			"id":        it.ID,
			"productId": it.ProductID,
			"quantity":  it.Quantity,
			"unitCost":  it.UnitCost.String(),
			"subtotal":  it.Subtotal.String(),
		})
	}
	return map[string]any{
		"id":            p.ID,
		"supplierId":    p.SupplierID,
		"branchId":      p.BranchID,
		"invoiceNo":     p.InvoiceNo,
		"date":          p.Date.Format(dateLayout),
		"totalAmount":   p.TotalAmount.String(),
		"discount":      p.Discount.String(),
		"tax":           p.Tax.String(),
		"grandTotal":    p.GrandTotal.String(),
		"paymentStatus": string(p.PaymentStatus),
		"items":         items,
	}
}

// parseMoneyPair parses optional discount/tax strings, defaulting to zero.
func parseMoneyPair(discount, tax string) (decimal.Decimal, decimal.Decimal, error) {
	d := decimal.Zero
	t := decimal.Zero
	var err error
	if discount != "" {
		d, err = decimal.NewFromString(discount)
		if err != nil {
			return d, t, &domain.ValidationError{Field: "discount", Reason: "must be a decimal number"}
		}
	}
	if tax != "" {
		t, err = decimal.NewFromString(tax)
		if err != nil {
			return d, t, &domain.ValidationError{Field: "tax", Reason: "must be a decimal number"}
		}
	}
	return d, t, nil
}
