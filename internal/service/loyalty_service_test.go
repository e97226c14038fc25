package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateSource struct {
	rate decimal.Decimal
	err  error
}

func (s stubRateSource) EarnRate(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, s.err
}

func TestLoyaltyEarnAndRedeem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.loyalty.Earn(ctx, testCustomer, 100, "promo", domain.ManualRef())
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.PointsBalance)
	assert.Equal(t, int64(100), account.TotalEarned)

	account, err = env.loyalty.Redeem(ctx, testCustomer, 40, "discount", domain.ManualRef())
	require.NoError(t, err)
	assert.Equal(t, int64(60), account.PointsBalance)
	assert.Equal(t, int64(40), account.TotalRedeemed)
	assert.Equal(t, account.TotalEarned-account.TotalRedeemed, account.PointsBalance)

	txs, err := env.loyalty.Transactions(ctx, testCustomer, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	// Newest first.
	assert.Equal(t, domain.PointsRedeemed, txs[0].Type)
	assert.Equal(t, int64(60), txs[0].BalanceAfter)
	assert.Equal(t, domain.PointsEarned, txs[1].Type)
}

func TestLoyaltyRedeemBeyondBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.loyalty.Earn(ctx, testCustomer, 10, "promo", domain.ManualRef())
	require.NoError(t, err)

	_, err = env.loyalty.Redeem(ctx, testCustomer, 11, "discount", domain.ManualRef())
	var pointsErr *domain.InsufficientPointsError
	require.ErrorAs(t, err, &pointsErr)
	assert.Equal(t, int64(10), pointsErr.Balance)
	assert.Equal(t, int64(11), pointsErr.Requested)

	// The failed redemption writes nothing.
	account, err := env.loyalty.Account(ctx, testCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.PointsBalance)
}

func TestLoyaltyNonPositivePointsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var validation *domain.ValidationError
	_, err := env.loyalty.Earn(ctx, testCustomer, 0, "x", domain.ManualRef())
	require.ErrorAs(t, err, &validation)
	_, err = env.loyalty.Redeem(ctx, testCustomer, -5, "x", domain.ManualRef())
	require.ErrorAs(t, err, &validation)
	_, err = env.loyalty.Adjust(ctx, testCustomer, 0, "x")
	require.ErrorAs(t, err, &validation)
}

func TestLoyaltyAdjustBothDirections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.loyalty.Adjust(ctx, testCustomer, 50, "goodwill")
	require.NoError(t, err)
	assert.Equal(t, int64(50), account.PointsBalance)
	assert.Equal(t, int64(50), account.TotalEarned)

	account, err = env.loyalty.Adjust(ctx, testCustomer, -20, "correction")
	require.NoError(t, err)
	assert.Equal(t, int64(30), account.PointsBalance)
	assert.Equal(t, int64(20), account.TotalRedeemed)

	_, err = env.loyalty.Adjust(ctx, testCustomer, -31, "too much")
	var pointsErr *domain.InsufficientPointsError
	require.ErrorAs(t, err, &pointsErr)
}

func TestLoyaltyResetZeroesBalanceKeepingHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.loyalty.Earn(ctx, testCustomer, 80, "promo", domain.ManualRef())
	require.NoError(t, err)

	account, err := env.loyalty.Reset(ctx, testCustomer, "annual reset")
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.PointsBalance)
	assert.Equal(t, int64(80), account.TotalEarned)
	assert.Equal(t, int64(80), account.TotalRedeemed)
	assert.Equal(t, account.TotalEarned-account.TotalRedeemed, account.PointsBalance)
}

func TestLoyaltyUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.loyalty.Earn(context.Background(), 999, 10, "promo", domain.ManualRef())
	var ref *domain.ReferenceNotFoundError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "customer", ref.Kind)
}

func TestProcessSalePointsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	ctx := context.Background()

	customer := testCustomer
	sale := env.mustSale(t, CreateSaleInput{
		BranchID:   testBranch,
		CustomerID: &customer,
		Paid:       dec("50"),
		Lines:      []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})

	account, err := env.loyalty.ProcessSalePoints(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), account.PointsBalance)

	// Reprocessing the same sale must not double-award.
	account, err = env.loyalty.ProcessSalePoints(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), account.PointsBalance)

	txs, err := env.loyalty.Transactions(ctx, testCustomer, 10)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestProcessSalePointsUsesStoredSettingsRate(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	// The stored rate wins over the configured 0.1 default.
	env.loyalty.Rates = stubRateSource{rate: dec("0.2")}
	ctx := context.Background()

	customer := testCustomer
	sale := env.mustSale(t, CreateSaleInput{
		BranchID:   testBranch,
		CustomerID: &customer,
		Paid:       dec("50"),
		Lines:      []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})

	account, err := env.loyalty.ProcessSalePoints(ctx, sale.ID)
	require.NoError(t, err)
	// floor(50 * 0.2) = 10, not the default's 5.
	assert.Equal(t, int64(10), account.PointsBalance)
}

func TestProcessSalePointsFallsBackWhenRateLookupFails(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	env.loyalty.Rates = stubRateSource{err: errors.New("settings unavailable")}
	ctx := context.Background()

	customer := testCustomer
	sale := env.mustSale(t, CreateSaleInput{
		BranchID:   testBranch,
		CustomerID: &customer,
		Paid:       dec("50"),
		Lines:      []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})

	account, err := env.loyalty.ProcessSalePoints(ctx, sale.ID)
	require.NoError(t, err)
	// Configured 0.1 default applies.
	assert.Equal(t, int64(5), account.PointsBalance)
}

func TestProcessSalePointsWalkInCustomerRejected(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	ctx := context.Background()

	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 1, UnitPrice: dec("10")}},
	})

	_, err := env.loyalty.ProcessSalePoints(ctx, sale.ID)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}
