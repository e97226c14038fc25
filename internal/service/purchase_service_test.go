package service

import (
	"context"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePurchaseIncrementsStockAndLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.mustPurchase(t, CreatePurchaseInput{
		SupplierID: testSupplier,
		BranchID:   testBranch,
		InvoiceNo:  "PUR-1001",
		Discount:   dec("5"),
		Tax:        dec("2"),
		Lines: []PurchaseLine{
			{ProductID: productSoap, Quantity: 10, UnitCost: dec("6")},
			{ProductID: productTea, Quantity: 4, UnitCost: dec("2")},
		},
	})

	// total = 10*6 + 4*2 = 68; grand = 68 - 5 + 2 = 65
	assert.True(t, p.TotalAmount.Equal(dec("68")), "total = %s", p.TotalAmount)
	assert.True(t, p.GrandTotal.Equal(dec("65")), "grand = %s", p.GrandTotal)
	assert.Equal(t, domain.PurchaseUnpaid, p.PaymentStatus)

	assert.Equal(t, 10, env.quantity(t, productSoap))
	assert.Equal(t, 4, env.quantity(t, productTea))

	logs, err := env.store.Logs().List(ctx, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, domain.ChangePurchase, l.ChangeType)
		assert.Equal(t, domain.PurchaseRef(p.ID), l.Ref)
	}
}

func TestCreatePurchaseDuplicateInvoice(t *testing.T) {
	env := newTestEnv(t)

	in := CreatePurchaseInput{
		SupplierID: testSupplier,
		BranchID:   testBranch,
		InvoiceNo:  "PUR-DUP",
		Lines:      []PurchaseLine{{ProductID: productSoap, Quantity: 1, UnitCost: dec("6")}},
	}
	env.mustPurchase(t, in)

	_, err := env.purchases.CreatePurchase(context.Background(), in)
	var dup *domain.DuplicateInvoiceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "PUR-DUP", dup.InvoiceNo)

	// The failed attempt must not move stock.
	assert.Equal(t, 1, env.quantity(t, productSoap))
}

func TestCreatePurchaseUnknownSupplierRollsBack(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.purchases.CreatePurchase(context.Background(), CreatePurchaseInput{
		SupplierID: 999,
		BranchID:   testBranch,
		Lines:      []PurchaseLine{{ProductID: productSoap, Quantity: 5, UnitCost: dec("6")}},
	})
	var ref *domain.ReferenceNotFoundError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "supplier", ref.Kind)
	assert.Equal(t, 0, env.quantity(t, productSoap))
}

func TestPurchaseRemoveItemReversesStockAndRederives(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.mustPurchase(t, CreatePurchaseInput{
		SupplierID: testSupplier,
		BranchID:   testBranch,
		Lines: []PurchaseLine{
			{ProductID: productSoap, Quantity: 10, UnitCost: dec("6")},
			{ProductID: productTea, Quantity: 4, UnitCost: dec("2")},
		},
	})
	require.Len(t, p.Items, 2)
	teaItem := p.Items[1]

	updated, err := env.purchases.RemoveItem(ctx, p.ID, teaItem.ID, nil)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.TotalAmount.Equal(dec("60")), "total = %s", updated.TotalAmount)
	assert.Equal(t, 0, env.quantity(t, productTea))
}

func TestPurchaseRemoveItemFailsWhenStockAlreadySold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.mustPurchase(t, CreatePurchaseInput{
		SupplierID: testSupplier,
		BranchID:   testBranch,
		Lines:      []PurchaseLine{{ProductID: productSoap, Quantity: 5, UnitCost: dec("6")}},
	})

	// Sell everything that came in.
	env.mustSale(t, CreateSaleInput{
		BranchID: testBranch,
		Lines:    []SaleLine{{ProductID: productSoap, Quantity: 5, UnitPrice: dec("10")}},
	})

	_, err := env.purchases.RemoveItem(ctx, p.ID, p.Items[0].ID, nil)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// Rollback: the item is still on the purchase.
	got, err := env.purchases.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestSetPaymentStatusValidatesEnum(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.mustPurchase(t, CreatePurchaseInput{
		SupplierID: testSupplier,
		BranchID:   testBranch,
		Lines:      []PurchaseLine{{ProductID: productSoap, Quantity: 1, UnitCost: dec("6")}},
	})

	require.NoError(t, env.purchases.SetPaymentStatus(ctx, p.ID, domain.PurchasePaid))

	err := env.purchases.SetPaymentStatus(ctx, p.ID, "refunded")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}
