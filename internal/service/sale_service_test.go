package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaleDecrementsStockAndDerivesPayment(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 20)
	ctx := context.Background()

	customer := testCustomer
	sale := env.mustSale(t, CreateSaleInput{
		BranchID:   testBranch,
		CustomerID: &customer,
		InvoiceNo:  "INV-2001",
		Discount:   dec("3"),
		Tax:        dec("1"),
		Paid:       dec("20"),
		Lines: []SaleLine{
			{ProductID: productSoap, Quantity: 4, UnitPrice: dec("10")},
		},
	})

	// total = 40; grand = 40 - 3 + 1 = 38; due = 18 -> partial
	assert.True(t, sale.TotalAmount.Equal(dec("40")), "total = %s", sale.TotalAmount)
	assert.True(t, sale.GrandTotal.Equal(dec("38")), "grand = %s", sale.GrandTotal)
	assert.True(t, sale.DueAmount.Equal(dec("18")), "due = %s", sale.DueAmount)
	assert.Equal(t, domain.SalePartial, sale.Status)

	assert.Equal(t, 16, env.quantity(t, productSoap))

	logs, err := env.store.Logs().List(ctx, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ChangeSale, logs[0].ChangeType)
	assert.Equal(t, -4, logs[0].QuantityChange)
	assert.Equal(t, domain.SaleRef(sale.ID), logs[0].Ref)
}

func TestCreateSaleFullyPaidIsCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 5)

	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Paid:     dec("10"),
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 1, UnitPrice: dec("10")}},
	})
	assert.Equal(t, domain.SaleCompleted, sale.Status)
	assert.True(t, sale.DueAmount.IsZero())
}

func TestCreateSaleInsufficientStockLeavesLedgerUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	env.store.SeedStock(productTea, testBranch, 2)
	ctx := context.Background()

	// The first line is coverable, the second is short; nothing may move.
	_, err := env.sales.CreateSale(ctx, CreateSaleInput{
		BranchID: testBranch,
		Lines: []SaleLine{
			{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")},
			{ProductID: productTea, Quantity: 3, UnitPrice: dec("4.50")},
		},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, productTea, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, 10, env.quantity(t, productSoap))
	logs, err := env.store.Logs().List(ctx, nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCreateSaleDuplicateInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)

	in := CreateSaleInput{
		BranchID:  testBranch,
		InvoiceNo: "INV-DUP",
		Lines:     []SaleLine{{ProductID: productSoap, Quantity: 1, UnitPrice: dec("10")}},
	}
	env.mustSale(t, in)

	_, err := env.sales.CreateSale(context.Background(), in)
	var dup *domain.DuplicateInvoiceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 9, env.quantity(t, productSoap))
}

func TestCreateSaleOverpaidRejected(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)

	_, err := env.sales.CreateSale(context.Background(), CreateSaleInput{
		BranchID: testBranch,
		Paid:     dec("100"),
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 1, UnitPrice: dec("10")}},
	})
	var payErr *domain.InvalidPaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, 10, env.quantity(t, productSoap))
}

func TestCreateSaleLowStockNotification(t *testing.T) {
	env := newTestEnv(t)
	// Soap has a minimum stock of 3; dropping from 5 to 2 crosses it.
	env.store.SeedStock(productSoap, testBranch, 5)

	env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 3, UnitPrice: dec("10")}},
	})

	notifications := env.store.NotificationsList()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationLowStock, notifications[0].Type)
}

func TestCreateSaleAwardsPoints(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	ctx := context.Background()

	customer := testCustomer
	sale := env.mustSale(t, CreateSaleInput{
		BranchID:    testBranch,
		CustomerID:  &customer,
		Paid:        dec("50"),
		AwardPoints: true,
		Lines:       []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})

	account, err := env.loyalty.Account(ctx, testCustomer)
	require.NoError(t, err)
	// floor(50 * 0.1) = 5 points.
	assert.Equal(t, int64(5), account.PointsBalance)
	assert.Equal(t, int64(5), account.TotalEarned)

	txs, err := env.loyalty.Transactions(ctx, testCustomer, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.PointsEarned, txs[0].Type)
	assert.Equal(t, domain.SaleRef(sale.ID), txs[0].Ref)
}

func TestUpdatePaymentRederivesStatus(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	ctx := context.Background()

	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 2, UnitPrice: dec("10")}},
	})
	assert.Equal(t, domain.SalePending, sale.Status)

	updated, err := env.sales.UpdatePayment(ctx, sale.ID, dec("20"))
	require.NoError(t, err)
	assert.Equal(t, domain.SaleCompleted, updated.Status)
	assert.True(t, updated.DueAmount.IsZero())

	_, err = env.sales.UpdatePayment(ctx, sale.ID, dec("25"))
	var payErr *domain.InvalidPaymentError
	require.ErrorAs(t, err, &payErr)
}

func TestSaleRemoveItemBelowPaidAmountRejected(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	env.store.SeedStock(productTea, testBranch, 10)
	ctx := context.Background()

	// grand = 20 + 9 = 29, fully paid. Dropping the soap line would
	// leave grand at 9 with 29 already paid.
	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Paid:     dec("29"),
		Lines: []SaleLine{
			{ProductID: productSoap, Quantity: 2, UnitPrice: dec("10")},
			{ProductID: productTea, Quantity: 2, UnitPrice: dec("4.50")},
		},
	})

	_, err := env.sales.RemoveItem(ctx, sale.ID, sale.Items[0].ID, nil)
	var payErr *domain.InvalidPaymentError
	require.ErrorAs(t, err, &payErr)

	// Rollback: the line and its stock decrement both stand.
	got, err := env.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 8, env.quantity(t, productSoap))
}

func TestSaleRemoveItemRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	env.store.SeedStock(productTea, testBranch, 10)
	ctx := context.Background()

	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines: []SaleLine{
			{ProductID: productSoap, Quantity: 2, UnitPrice: dec("10")},
			{ProductID: productTea, Quantity: 2, UnitPrice: dec("4.50")},
		},
	})

	updated, err := env.sales.RemoveItem(ctx, sale.ID, sale.Items[1].ID, nil)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.GrandTotal.Equal(dec("20")), "grand = %s", updated.GrandTotal)
	assert.Equal(t, 10, env.quantity(t, productTea))
}

func TestCancelSaleRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 10)
	env.store.SeedStock(productTea, testBranch, 10)
	ctx := context.Background()

	sale := env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines: []SaleLine{
			{ProductID: productSoap, Quantity: 3, UnitPrice: dec("10")},
			{ProductID: productTea, Quantity: 2, UnitPrice: dec("4.50")},
		},
	})
	assert.Equal(t, 7, env.quantity(t, productSoap))

	cancelled, err := env.sales.Cancel(ctx, sale.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleCancelled, cancelled.Status)
	assert.Equal(t, 10, env.quantity(t, productSoap))
	assert.Equal(t, 10, env.quantity(t, productTea))

	// A second cancel is rejected.
	_, err = env.sales.Cancel(ctx, sale.ID, nil)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedStock(productSoap, testBranch, 3)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.sales.CreateSale(ctx, CreateSaleInput{
				BranchID:  testBranch,
				InvoiceNo: fmt.Sprintf("INV-C%d", i),
				Lines:     []SaleLine{{ProductID: productSoap, Quantity: 1, UnitPrice: dec("10")}},
			})
		}(i)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		short++
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, attempts-3, short)
	assert.Equal(t, 0, env.quantity(t, productSoap))
}
