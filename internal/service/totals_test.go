package service

import (
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocTotals(t *testing.T) {
	subtotals := []decimal.Decimal{dec("40"), dec("9")}
	total, grand := docTotals(subtotals, dec("5"), dec("2.50"))
	assert.True(t, total.Equal(dec("49")), "total = %s", total)
	assert.True(t, grand.Equal(dec("46.50")), "grand = %s", grand)

	total, grand = docTotals(nil, decimal.Zero, decimal.Zero)
	assert.True(t, total.IsZero())
	assert.True(t, grand.IsZero())
}

func TestDerivePayment(t *testing.T) {
	tests := []struct {
		name    string
		grand   string
		paid    string
		due     string
		status  domain.SaleStatus
		wantErr bool
	}{
		{name: "unpaid", grand: "100", paid: "0", due: "100", status: domain.SalePending},
		{name: "partial", grand: "100", paid: "40", due: "60", status: domain.SalePartial},
		{name: "full", grand: "100", paid: "100", due: "0", status: domain.SaleCompleted},
		{name: "zero total zero paid", grand: "0", paid: "0", due: "0", status: domain.SaleCompleted},
		{name: "negative paid", grand: "100", paid: "-1", wantErr: true},
		{name: "overpaid", grand: "100", paid: "100.01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, status, err := derivePayment(dec(tt.grand), dec(tt.paid))
			if tt.wantErr {
				var payErr *domain.InvalidPaymentError
				require.ErrorAs(t, err, &payErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, due.Equal(dec(tt.due)), "due = %s", due)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestSalePoints(t *testing.T) {
	assert.Equal(t, int64(5), salePoints(dec("50"), dec("0.1")))
	assert.Equal(t, int64(0), salePoints(dec("9.99"), dec("0.1")))
	assert.Equal(t, int64(1), salePoints(dec("150"), dec("0.01")))
	assert.Equal(t, int64(0), salePoints(dec("100"), decimal.Zero))
	// A negative total never produces negative points.
	assert.Equal(t, int64(0), salePoints(dec("-10"), dec("0.1")))
}

func TestReturnableQuantity(t *testing.T) {
	assert.Equal(t, 5, returnableQuantity(5, 0))
	assert.Equal(t, 2, returnableQuantity(5, 3))
	assert.Equal(t, 0, returnableQuantity(5, 5))
	assert.Equal(t, 0, returnableQuantity(5, 6))
}
