package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ExpenseHandler struct {
	Repo repository.ExpenseRepository
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.list)
	r.Get("/expenses/export", h.export)
	r.Post("/expenses", h.create)
	r.Delete("/expenses/{id}", h.remove)
}

func (h ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Repo.List(r.Context(), branchID, from, to, parseLimitQuery(r, 200))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	total, err := h.Repo.Total(r.Context(), branchID, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, expensePayload(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": resp,
		"total": total.String(),
	})
}

func (h ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID *int64 `json:"branchId"`
		Title    string `json:"title"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Date     string `json:"date"`
		Note     string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must be a non-negative decimal")
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
	e, err := h.Repo.Create(r.Context(), repository.CreateExpenseInput{
		BranchID:  req.BranchID,
		Title:     req.Title,
		Amount:    amount,
		Category:  req.Category,
		Date:      date,
		Note:      req.Note,
		CreatedBy: currentUserID(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expensePayload(*e))
}

func (h ExpenseHandler) remove(w http.ResponseWriter, r *http.Request) {
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

func (h ExpenseHandler) export(w http.ResponseWriter, r *http.Request) {
	format := exportFormat(r)
	if format == "" {
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
		return
	}
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	branchID := parseIDQuery(r, "branchId")
	items, err := h.Repo.List(r.Context(), branchID, from, to, 5000)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if from != nil && to != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", from.Format("20060102"), to.Format("20060102"))
	}

	var data []byte
	if format == "csv" {
		data, err = exportExpenseCSV(items)
	} else {
		data, err = exportExpenseXLSX(items)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeExportFile(w, "expenses_"+filenameSuffix, format, data)
}

func (h ExpenseHandler) dateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return nil, nil, false
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return nil, nil, false
	}
	if from != nil && to != nil && from.After(*to) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return nil, nil, false
	}
	return from, to, true
}

func exportExpenseCSV(items []domain.Expense) ([]byte, error) {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			e.Amount.String(),
			e.Category,
			e.Date.Format(dateLayout),
			e.Note,
		})
	}
	return buildCSV([]string{"id", "title", "amount", "category", "date", "note"}, rows)
}

func exportExpenseXLSX(items []domain.Expense) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, e := range items {
		rows = append(rows, []any{
			e.ID,
			e.Title,
			e.Amount.String(),
			e.Category,
			e.Date.Format(dateLayout),
			e.Note,
		})
	}
	return buildXLSX("Expenses",
		[]string{"ID", "Title", "Amount", "Category", "Date", "Note"},
		rows,
		[]float64{10, 28, 14, 18, 12, 28})
}

func expensePayload(e domain.Expense) map[string]any {
	return map[string]any{
		"id":       e.ID,
		"branchId": e.BranchID,
		"title":    e.Title,
		"amount":   e.Amount.String(),
		"category": e.Category,
		"date":     e.Date.Format(dateLayout),
		"note":     e.Note,
	}
}
