package service

import (
	"context"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// returnFixture sells 5 soap at 10 each and returns the sale.
func returnFixture(t *testing.T, env *testEnv) *domain.Sale {
	t.Helper()
	env.store.SeedStock(productSoap, testBranch, 20)
	return env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})
}

func TestCreateReturnRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	sale := returnFixture(t, env)
	require.Equal(t, 15, env.quantity(t, productSoap))

	ret, err := env.returns.CreateReturn(context.Background(), CreateReturnInput{
		SaleID:       sale.ID,
		ProductID:    productSoap,
		Quantity:     2,
		Reason:       "damaged",
		RefundAmount: dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnApproved, ret.Status)
	assert.Equal(t, 17, env.quantity(t, productSoap))
}

func TestCreateReturnQuantityCapAccumulates(t *testing.T) {
	env := newTestEnv(t)
	sale := returnFixture(t, env)
	ctx := context.Background()

	_, err := env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 3, RefundAmount: dec("30"),
	})
	require.NoError(t, err)

	// 3 of 5 already returned; another 3 exceeds the cap.
	_, err = env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 3, RefundAmount: dec("30"),
	})
	var qtyErr *domain.ReturnExceedsQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, 5, qtyErr.Sold)
	assert.Equal(t, 3, qtyErr.AlreadyReturned)
	assert.Equal(t, 3, qtyErr.Requested)

	// The remaining 2 are still returnable.
	_, err = env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 2, RefundAmount: dec("20"),
	})
	require.NoError(t, err)
}

func TestCreateReturnRefundCap(t *testing.T) {
	env := newTestEnv(t)
	sale := returnFixture(t, env)

	_, err := env.returns.CreateReturn(context.Background(), CreateReturnInput{
		SaleID:       sale.ID,
		ProductID:    productSoap,
		Quantity:     2,
		RefundAmount: dec("20.01"),
	})
	var refundErr *domain.RefundExceedsValueError
	require.ErrorAs(t, err, &refundErr)
	assert.True(t, refundErr.MaxRefund.Equal(dec("20")), "max = %s", refundErr.MaxRefund)

	// Failed creation leaves stock where the sale put it.
	assert.Equal(t, 15, env.quantity(t, productSoap))
}

func TestCreateReturnProductNotOnSale(t *testing.T) {
	env := newTestEnv(t)
	sale := returnFixture(t, env)

	_, err := env.returns.CreateReturn(context.Background(), CreateReturnInput{
		SaleID: sale.ID, ProductID: productTea, Quantity: 1,
	})
	var ref *domain.ReferenceNotFoundError
	require.ErrorAs(t, err, &ref)
}

func TestValidateReturnReportsRemaining(t *testing.T) {
	env := newTestEnv(t)
	sale := returnFixture(t, env)
	ctx := context.Background()

	_, err := env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 2, RefundAmount: dec("20"),
	})
	require.NoError(t, err)

	elig, err := env.returns.ValidateReturn(ctx, sale.ID, productSoap)
	require.NoError(t, err)
	assert.Equal(t, 5, elig.Sold)
	assert.Equal(t, 2, elig.AlreadyReturned)
	assert.Equal(t, 3, elig.AvailableToReturn)
	assert.True(t, elig.MaxRefund.Equal(dec("30")), "max = %s", elig.MaxRefund)
}

func TestPendingReturnApproveAndReject(t *testing.T) {
	env := newTestEnv(t)
	env.returns.AutoApprove = false
	sale := returnFixture(t, env)
	ctx := context.Background()

	ret, err := env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 2, RefundAmount: dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnPending, ret.Status)
	// Stock is restored at creation even while pending.
	assert.Equal(t, 17, env.quantity(t, productSoap))

	approved, err := env.returns.Approve(ctx, ret.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnApproved, approved.Status)
	assert.Equal(t, 17, env.quantity(t, productSoap))

	// A second transition is rejected.
	_, err = env.returns.Reject(ctx, ret.ID, nil)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestRejectReturnTakesStockBackOut(t *testing.T) {
	env := newTestEnv(t)
	env.returns.AutoApprove = false
	sale := returnFixture(t, env)
	ctx := context.Background()

	ret, err := env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 2, RefundAmount: dec("20"),
	})
	require.NoError(t, err)
	require.Equal(t, 17, env.quantity(t, productSoap))

	rejected, err := env.returns.Reject(ctx, ret.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnRejected, rejected.Status)
	assert.Equal(t, 15, env.quantity(t, productSoap))
}

func TestRejectFailsWhenRestoredStockAlreadySold(t *testing.T) {
	env := newTestEnv(t)
	env.returns.AutoApprove = false
	env.store.SeedStock(productSoap, testBranch, 5)
	ctx := context.Background()

	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})
	ret, err := env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 2, RefundAmount: dec("20"),
	})
	require.NoError(t, err)

	// Draw the restored units back down before the rejection lands.
	env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 2, UnitPrice: dec("10")}},
	})

	_, err = env.returns.Reject(ctx, ret.ID, nil)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// Rollback keeps the return pending.
	got, err := env.store.Returns().Get(ctx, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnPending, got.Status)
}

func TestDeleteReturnReversesStockUnlessRejected(t *testing.T) {
	env := newTestEnv(t)
	sale := returnFixture(t, env)
	ctx := context.Background()

	ret, err := env.returns.CreateReturn(ctx, CreateReturnInput{
		SaleID: sale.ID, ProductID: productSoap, Quantity: 2, RefundAmount: dec("20"),
	})
	require.NoError(t, err)
	require.Equal(t, 17, env.quantity(t, productSoap))

	require.NoError(t, env.returns.Delete(ctx, ret.ID, nil))
	assert.Equal(t, 15, env.quantity(t, productSoap))

	_, err = env.store.Returns().Get(ctx, ret.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
