package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found sentinel", domain.ErrNotFound, http.StatusNotFound},
		{"dangling reference", &domain.ReferenceNotFoundError{Kind: "sale", ID: 7}, http.StatusNotFound},
		{"insufficient stock", &domain.InsufficientStockError{ProductID: 1, BranchID: 1, Available: 0, Requested: 2}, http.StatusConflict},
		{"duplicate invoice", &domain.DuplicateInvoiceError{InvoiceNo: "INV-1"}, http.StatusConflict},
		{"serialization conflict", &domain.ConflictError{Err: errors.New("retry")}, http.StatusConflict},
		{"return quantity cap", &domain.ReturnExceedsQuantityError{SaleID: 1, ProductID: 1, Sold: 2, Requested: 3}, http.StatusBadRequest},
		{"refund cap", &domain.RefundExceedsValueError{SaleID: 1, ProductID: 1}, http.StatusBadRequest},
		{"insufficient points", &domain.InsufficientPointsError{CustomerID: 1, Balance: 0, Requested: 5}, http.StatusBadRequest},
		{"invalid payment", &domain.InvalidPaymentError{Reason: "overpaid"}, http.StatusBadRequest},
		{"validation", &domain.ValidationError{Field: "quantity", Reason: "must be positive"}, http.StatusBadRequest},
		{"timeout", &domain.TransactionTimeoutError{Err: errors.New("canceled")}, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)

			var body apiResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.status, body.Error.Code)
		})
	}
}

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]string{"hello": "world"})
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Nil(t, body.Error)
}
