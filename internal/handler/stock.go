package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/server/authctx"
	"github.com/alamin00006/business-management/internal/service"
	"github.com/go-chi/chi/v5"
)

type StockHandler struct {
	Service *service.InventoryService
}

func (h StockHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stock", h.list)
	r.Post("/stock/adjust", h.adjust)
	r.Get("/stock/logs", h.logs)
	r.Get("/stock/logs/export", h.exportLogs)
}

func (h StockHandler) list(w http.ResponseWriter, r *http.Request) {
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Service.ListStock(r.Context(), branchID, parseLimitQuery(r, 500))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, map[string]any{
			"id":        e.ID,
			"productId": e.ProductID,
			"branchId":  e.BranchID,
			"quantity":  e.Quantity,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h StockHandler) adjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
		BranchID  int64 `json:"branchId"`
		Change    int   `json:"change"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ProductID == 0 || req.BranchID == 0 {
		writeError(w, http.StatusBadRequest, "productId and branchId are required")
		return
	}
	entry, err := h.Service.AdjustStock(r.Context(), req.ProductID, req.BranchID, req.Change, currentUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"productId": entry.ProductID,
		"branchId":  entry.BranchID,
		"quantity":  entry.Quantity,
	})
}

func (h StockHandler) logs(w http.ResponseWriter, r *http.Request) {
	productID := parseIDQuery(r, "productId")
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Service.Logs(r.Context(), productID, branchID, parseLimitQuery(r, 100))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, l := range items {
		resp = append(resp, inventoryLogPayload(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h StockHandler) exportLogs(w http.ResponseWriter, r *http.Request) {
	format := exportFormat(r)
	if format == "" {
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
		return
	}
	productID := parseIDQuery(r, "productId")
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Service.Logs(r.Context(), productID, branchID, 5000)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var data []byte
	if format == "csv" {
		data, err = exportInventoryLogCSV(items)
	} else {
		data, err = exportInventoryLogXLSX(items)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeExportFile(w, "inventory_logs_"+time.Now().Format("20060102_150405"), format, data)
}

var inventoryLogHeader = []string{"ID", "Product ID", "Branch ID", "Change Type", "Change", "Previous", "New", "Reference", "Created At"}

func exportInventoryLogCSV(items []domain.InventoryLog) ([]byte, error) {
	rows := make([][]string, 0, len(items))
	for _, l := range items {
		rows = append(rows, []string{
			strconv.FormatInt(l.ID, 10),
			strconv.FormatInt(l.ProductID, 10),
			strconv.FormatInt(l.BranchID, 10),
			string(l.ChangeType),
			strconv.Itoa(l.QuantityChange),
			strconv.Itoa(l.PreviousStock),
			strconv.Itoa(l.NewStock),
			l.Ref.String(),
			l.CreatedAt.Format(time.RFC3339),
		})
	}
	return buildCSV(inventoryLogHeader, rows)
}

func exportInventoryLogXLSX(items []domain.InventoryLog) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, l := range items {
		rows = append(rows, []any{
			l.ID,
			l.ProductID,
			l.BranchID,
			string(l.ChangeType),
			l.QuantityChange,
			l.PreviousStock,
			l.NewStock,
			l.Ref.String(),
			l.CreatedAt.Format(time.RFC3339),
		})
	}
	return buildXLSX("Inventory Logs", inventoryLogHeader, rows,
		[]float64{8, 12, 12, 14, 10, 10, 10, 18, 22})
}

func inventoryLogPayload(l domain.InventoryLog) map[string]any {
	return map[string]any{
		"id":             l.ID,
		"productId":      l.ProductID,
		"branchId":       l.BranchID,
		"changeType":     string(l.ChangeType),
		"quantityChange": l.QuantityChange,
		"previousStock":  l.PreviousStock,
		"newStock":       l.NewStock,
		"reference":      l.Ref.String(),
		"createdAt":      l.CreatedAt,
	}
}

func currentUserID(r *http.Request) *int64 {
	if u := authctx.FromContext(r.Context()); u != nil {
		return &u.ID
	}
	return nil
}
