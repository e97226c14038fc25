package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/alamin00006/business-management/internal/repository/memory"
	"github.com/alamin00006/business-management/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportFormat(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "csv"},
		{"format=csv", "csv"},
		{"format=xlsx", "xlsx"},
		{"format=excel", "xlsx"},
		{"format=pdf", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/export?"+tt.query, nil)
		assert.Equal(t, tt.want, exportFormat(r), "query %q", tt.query)
	}
}

func TestBuildCSV(t *testing.T) {
	data, err := buildCSV([]string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"A", "B"}, records[0])
	assert.Equal(t, []string{"2", "y"}, records[2])
}

func TestBuildXLSX(t *testing.T) {
	data, err := buildXLSX("Report", []string{"A", "B"},
		[][]any{{"1", 10}, {"2", 20}}, []float64{10, 10})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"2", "20"}, rows[2])
}

func TestDaySummaryExportRows(t *testing.T) {
	items := []repository.DaySummary{
		{
			Date:       time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			Count:      3,
			GrandTotal: decimal.RequireFromString("120.50"),
			Paid:       decimal.RequireFromString("100"),
			Due:        decimal.RequireFromString("20.50"),
		},
	}

	data, err := exportDaySummaryCSV(items)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Date", "Count", "Grand Total", "Paid", "Due"}, records[0])
	assert.Equal(t, []string{"2026-03-04", "3", "120.5", "100", "20.5"}, records[1])

	data, err = exportDaySummaryXLSX(items)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Daily Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-03-04", rows[1][0])
	assert.Equal(t, "120.5", rows[1][2])
}

func TestStockLogsExport(t *testing.T) {
	st := memory.NewStore()
	st.SeedBranch(1)
	st.SeedProduct(domain.Product{
		ID:    7,
		Name:  "Soap",
		SKU:   "SOAP-1",
		Price: decimal.RequireFromString("10"),
		Cost:  decimal.RequireFromString("6"),
	})
	svc := &service.InventoryService{
		Scope:  st,
		Store:  st,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	_, err := svc.AdjustStock(context.Background(), 7, 1, 12, nil)
	require.NoError(t, err)
	_, err = svc.AdjustStock(context.Background(), 7, 1, -4, nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	StockHandler{Service: svc}.RegisterRoutes(router)

	t.Run("csv", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/logs/export?format=csv", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventory_logs_")

		records, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, inventoryLogHeader, records[0])
		// newest entry first: the -4 adjustment from 12 down to 8
		assert.Equal(t, "-4", records[1][4])
		assert.Equal(t, "12", records[1][5])
		assert.Equal(t, "8", records[1][6])
		assert.Equal(t, "manual", records[1][7])
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/logs/export?format=xlsx", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasSuffix(
			strings.Trim(strings.TrimPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename=`), `"`),
			".xlsx"))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Inventory Logs")
		require.NoError(t, err)
		require.Len(t, rows, 3)
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/logs/export?format=pdf", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
