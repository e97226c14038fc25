package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/repository/memory"
	"github.com/shopspring/decimal"
)

// testEnv wires every service onto one in-memory store with seeded
// reference data: branch 1, supplier 1, customer 1 and two products.
type testEnv struct {
	store     *memory.Store
	sales     *SaleService
	purchases *PurchaseService
	returns   *ReturnService
	loyalty   *LoyaltyService
	inventory *InventoryService
}

const (
	testBranch   int64 = 1
	testSupplier int64 = 1
	testCustomer int64 = 1
	productSoap  int64 = 101
	productTea   int64 = 102
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memory.NewStore()
	st.SeedBranch(testBranch)
	st.SeedSupplier(testSupplier)
	st.SeedCustomer(testCustomer)
	st.SeedProduct(domain.Product{
		ID:       productSoap,
		Name:     "Soap",
		SKU:      "SOAP-1",
		Price:    dec("10"),
		Cost:     dec("6"),
		MinStock: 3,
	})
	st.SeedProduct(domain.Product{
		ID:    productTea,
		Name:  "Tea",
		SKU:   "TEA-1",
		Price: dec("4.50"),
		Cost:  dec("2"),
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loyalty := &LoyaltyService{Scope: st, Store: st, EarnRate: dec("0.1"), Logger: logger}
	return &testEnv{
		store:     st,
		sales:     &SaleService{Scope: st, Store: st, Loyalty: loyalty, Logger: logger},
		purchases: &PurchaseService{Scope: st, Store: st, Logger: logger},
		returns:   &ReturnService{Scope: st, Store: st, AutoApprove: true, Logger: logger},
		loyalty:   loyalty,
		inventory: &InventoryService{Scope: st, Store: st, Logger: logger},
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (e *testEnv) quantity(t *testing.T, productID int64) int {
	t.Helper()
	qty, err := e.store.Stock().Quantity(context.Background(), productID, testBranch)
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	return qty
}

func (e *testEnv) mustSale(t *testing.T, in CreateSaleInput) *domain.Sale {
	t.Helper()
	sale, err := e.sales.CreateSale(context.Background(), in)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return sale
}

func (e *testEnv) mustPurchase(t *testing.T, in CreatePurchaseInput) *domain.Purchase {
	t.Helper()
	p, err := e.purchases.CreatePurchase(context.Background(), in)
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	return p
}
