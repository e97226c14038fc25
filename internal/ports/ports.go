package ports

import (
	"context"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/shopspring/decimal"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// StockLedger is the per-(product, branch) quantity store.
type StockLedger interface {
	// Adjust applies quantity += delta, creating the entry on first
	// movement. A decrement below zero fails with
	// *domain.InsufficientStockError; a missing entry counts as zero.
	// Concurrent adjustments to the same pair are serialized.
	Adjust(ctx context.Context, productID, branchID int64, delta int) (*domain.StockEntry, error)
	// Quantity returns the current quantity, zero when no entry exists.
	Quantity(ctx context.Context, productID, branchID int64) (int, error)
	// List returns entries, optionally filtered by branch.
	List(ctx context.Context, branchID *int64, limit int) ([]domain.StockEntry, error)
}

type PurchaseStore interface {
	// Insert persists the header and its items, assigning IDs.
	// An invoice collision fails with *domain.DuplicateInvoiceError.
	Insert(ctx context.Context, p *domain.Purchase) error
	Get(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context, branchID *int64, limit int) ([]domain.Purchase, error)
	AddItem(ctx context.Context, it *domain.PurchaseItem) error
	// RemoveItem deletes one line item and returns it.
	RemoveItem(ctx context.Context, purchaseID, itemID int64) (*domain.PurchaseItem, error)
	SetTotals(ctx context.Context, id int64, total, grand decimal.Decimal) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.PurchasePaymentStatus) error
}

type SaleStore interface {
	Insert(ctx context.Context, s *domain.Sale) error
	Get(ctx context.Context, id int64) (*domain.Sale, error)
	List(ctx context.Context, branchID *int64, limit int) ([]domain.Sale, error)
	AddItem(ctx context.Context, it *domain.SaleItem) error
	RemoveItem(ctx context.Context, saleID, itemID int64) (*domain.SaleItem, error)
	SetTotals(ctx context.Context, id int64, total, grand decimal.Decimal) error
	SetPayment(ctx context.Context, id int64, paid, due decimal.Decimal, status domain.SaleStatus) error
	SetStatus(ctx context.Context, id int64, status domain.SaleStatus) error
}

type ReturnStore interface {
	Insert(ctx context.Context, r *domain.SaleReturn) error
	Get(ctx context.Context, id int64) (*domain.SaleReturn, error)
	ListBySale(ctx context.Context, saleID int64) ([]domain.SaleReturn, error)
	// ReturnedQuantity sums quantities of non-rejected returns for one
	// (sale, product) pair.
	ReturnedQuantity(ctx context.Context, saleID, productID int64) (int, error)
	SetStatus(ctx context.Context, id int64, status domain.ReturnStatus, processedBy *int64) error
	Delete(ctx context.Context, id int64) error
}

type LoyaltyStore interface {
	// Account returns the customer's account, creating a zeroed one on
	// first use. Within a transaction scope the row is locked.
	Account(ctx context.Context, customerID int64) (*domain.LoyaltyAccount, error)
	SaveAccount(ctx context.Context, a *domain.LoyaltyAccount) error
	// AppendTransaction writes one immutable ledger entry.
	AppendTransaction(ctx context.Context, t *domain.LoyaltyTransaction) error
	Transactions(ctx context.Context, customerID int64, limit int) ([]domain.LoyaltyTransaction, error)
	// HasEarnedForSale reports whether an earned entry already references
	// the sale, the idempotency guard for sale point processing.
	HasEarnedForSale(ctx context.Context, saleID int64) (bool, error)
}

type InventoryLogStore interface {
	Append(ctx context.Context, l *domain.InventoryLog) error
	List(ctx context.Context, productID, branchID *int64, limit int) ([]domain.InventoryLog, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, n *domain.Notification) error
}

// Lookups are the reference-existence reads the transactional core needs
// from the surrounding CRUD layer.
type Lookups interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
	BranchExists(ctx context.Context, id int64) (bool, error)
	SupplierExists(ctx context.Context, id int64) (bool, error)
	CustomerExists(ctx context.Context, id int64) (bool, error)
}

// Store aggregates the ledger stores. A Store obtained inside
// TransactionScope.Execute is bound to one transaction; the top-level
// Store reads committed state.
type Store interface {
	Stock() StockLedger
	Purchases() PurchaseStore
	Sales() SaleStore
	Returns() ReturnStore
	Loyalty() LoyaltyStore
	Logs() InventoryLogStore
	Notifications() NotificationStore
	Lookups() Lookups
}

// TransactionScope runs fn inside one atomic unit. If fn returns an
// error every write made through its Store is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(Store) error) error
}
