package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRollsBackOnError(t *testing.T) {
	st := NewStore()
	st.SeedBranch(1)
	st.SeedProduct(domain.Product{ID: 10, Name: "Soap", SKU: "S-1"})
	st.SeedStock(10, 1, 5)
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.Execute(ctx, func(tx ports.Store) error {
		if _, err := tx.Stock().Adjust(ctx, 10, 1, -3); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	qty, err := st.Stock().Quantity(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, qty, "failed transaction must not leak writes")
}

func TestExecuteCommitsOnSuccess(t *testing.T) {
	st := NewStore()
	st.SeedBranch(1)
	st.SeedProduct(domain.Product{ID: 10, Name: "Soap", SKU: "S-1"})
	ctx := context.Background()

	err := st.Execute(ctx, func(tx ports.Store) error {
		_, err := tx.Stock().Adjust(ctx, 10, 1, 4)
		return err
	})
	require.NoError(t, err)

	qty, err := st.Stock().Quantity(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
}

func TestAdjustBelowZero(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	// Missing entries count as zero.
	_, err := st.Stock().Adjust(ctx, 10, 1, -1)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)

	entry, err := st.Stock().Adjust(ctx, 10, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)

	_, err = st.Stock().Adjust(ctx, 10, 1, -3)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
}

func TestDuplicateEarnedEntryForSale(t *testing.T) {
	st := NewStore()
	st.SeedCustomer(1)
	ctx := context.Background()

	tx := &domain.LoyaltyTransaction{
		CustomerID:   1,
		Type:         domain.PointsEarned,
		Points:       5,
		BalanceAfter: 5,
		Ref:          domain.SaleRef(99),
	}
	require.NoError(t, st.Loyalty().AppendTransaction(ctx, tx))

	ok, err := st.Loyalty().HasEarnedForSale(ctx, 99)
	require.NoError(t, err)
	assert.True(t, ok)

	dup := *tx
	dup.ID = 0
	var conflict *domain.ConflictError
	require.ErrorAs(t, st.Loyalty().AppendTransaction(ctx, &dup), &conflict)
}

func TestLoyaltyAccountCreation(t *testing.T) {
	st := NewStore()
	st.SeedCustomer(1)
	ctx := context.Background()

	account, err := st.Loyalty().Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.PointsBalance)

	var ref *domain.ReferenceNotFoundError
	_, err = st.Loyalty().Account(ctx, 2)
	require.ErrorAs(t, err, &ref)
}

func TestSaleInvoiceCollision(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	first := &domain.Sale{BranchID: 1, InvoiceNo: "INV-1"}
	require.NoError(t, st.Sales().Insert(ctx, first))
	assert.NotZero(t, first.ID)

	err := st.Sales().Insert(ctx, &domain.Sale{BranchID: 1, InvoiceNo: "INV-1"})
	var dup *domain.DuplicateInvoiceError
	require.ErrorAs(t, err, &dup)
}

func TestReturnedQuantityIgnoresRejected(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	approved := &domain.SaleReturn{SaleID: 1, ProductID: 10, Quantity: 2, Status: domain.ReturnApproved}
	rejected := &domain.SaleReturn{SaleID: 1, ProductID: 10, Quantity: 3, Status: domain.ReturnRejected}
	require.NoError(t, st.Returns().Insert(ctx, approved))
	require.NoError(t, st.Returns().Insert(ctx, rejected))

	qty, err := st.Returns().ReturnedQuantity(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}
