package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alamin00006/business-management/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	Repo repository.ReportRepository
}

type daySummaryFunc func(ctx context.Context, branchID *int64, from, to time.Time) ([]repository.DaySummary, error)

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/sales", h.sales)
	r.Get("/reports/sales/export", h.salesExport)
	r.Get("/reports/purchases", h.purchases)
	r.Get("/reports/purchases/export", h.purchasesExport)
}

func (h ReportHandler) sales(w http.ResponseWriter, r *http.Request) {
	h.byDay(w, r, h.Repo.SalesByDay)
}

func (h ReportHandler) purchases(w http.ResponseWriter, r *http.Request) {
	h.byDay(w, r, h.Repo.PurchasesByDay)
}

func (h ReportHandler) salesExport(w http.ResponseWriter, r *http.Request) {
	h.exportByDay(w, r, "sales_report", h.Repo.SalesByDay)
}

func (h ReportHandler) purchasesExport(w http.ResponseWriter, r *http.Request) {
	h.exportByDay(w, r, "purchases_report", h.Repo.PurchasesByDay)
}

func (h ReportHandler) byDay(w http.ResponseWriter, r *http.Request, fn daySummaryFunc) {
	items, ok := h.daySummaries(w, r, fn)
	if !ok {
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, d := range items {
		resp = append(resp, map[string]any{
			"date":       d.Date.Format(dateLayout),
			"count":      d.Count,
			"grandTotal": d.GrandTotal.String(),
			"paid":       d.Paid.String(),
			"due":        d.Due.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ReportHandler) exportByDay(w http.ResponseWriter, r *http.Request, name string, fn daySummaryFunc) {
	format := exportFormat(r)
	if format == "" {
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
		return
	}
	items, ok := h.daySummaries(w, r, fn)
	if !ok {
		return
	}

	var data []byte
	var err error
	if format == "csv" {
		data, err = exportDaySummaryCSV(items)
	} else {
		data, err = exportDaySummaryXLSX(items)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeExportFile(w, name+"_"+time.Now().Format("20060102_150405"), format, data)
}

// daySummaries parses the date window (last 30 days by default) and
// runs the query. It writes the error response itself on failure.
func (h ReportHandler) daySummaries(w http.ResponseWriter, r *http.Request, fn daySummaryFunc) ([]repository.DaySummary, bool) {
	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return nil, false
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return nil, false
	}
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return nil, false
	}

	items, err := fn(r.Context(), parseIDQuery(r, "branchId"), start, end)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return items, true
}

var daySummaryHeader = []string{"Date", "Count", "Grand Total", "Paid", "Due"}

func exportDaySummaryCSV(items []repository.DaySummary) ([]byte, error) {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{
			d.Date.Format(dateLayout),
			strconv.Itoa(d.Count),
			d.GrandTotal.String(),
			d.Paid.String(),
			d.Due.String(),
		})
	}
	return buildCSV(daySummaryHeader, rows)
}

func exportDaySummaryXLSX(items []repository.DaySummary) ([]byte, error) {
	rows := make([][]any, 0, len(items))
	for _, d := range items {
		rows = append(rows, []any{
			d.Date.Format(dateLayout),
			d.Count,
			d.GrandTotal.String(),
			d.Paid.String(),
			d.Due.String(),
		})
	}
	return buildXLSX("Daily Summary", daySummaryHeader, rows,
		[]float64{12, 8, 14, 14, 14})
}
