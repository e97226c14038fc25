package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	PurchaseUnpaid  PurchasePaymentStatus = "unpaid"
	PurchasePartial PurchasePaymentStatus = "partial"
	PurchasePaid    PurchasePaymentStatus = "paid"

	SalePending   SaleStatus = "pending"
	SalePartial   SaleStatus = "partial"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"

	ReturnPending  ReturnStatus = "pending"
	ReturnApproved ReturnStatus = "approved"
	ReturnRejected ReturnStatus = "rejected"

	PointsEarned           LoyaltyTxType = "earned"
	PointsRedeemed         LoyaltyTxType = "redeemed"
	PointsAdjustmentAdd    LoyaltyTxType = "adjustment_add"
	PointsAdjustmentRemove LoyaltyTxType = "adjustment_remove"
	PointsReset            LoyaltyTxType = "reset"
	PointsExpired          LoyaltyTxType = "expired"

	ChangePurchase   StockChangeType = "purchase"
	ChangeSale       StockChangeType = "sale"
	ChangeAdjustment StockChangeType = "adjustment"
	ChangeReturn     StockChangeType = "return"

	NotificationLowStock NotificationType = "low_stock"
	NotificationInfo     NotificationType = "info"
)

type UserRole string
type PurchasePaymentStatus string
type SaleStatus string
type ReturnStatus string
type LoyaltyTxType string
type StockChangeType string
type NotificationType string

type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	BranchID     *int64
	Role         UserRole
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Branch struct {
	ID        int64
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Brand struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Supplier struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Product struct {
	ID         int64
	Name       string
	SKU        string
	CategoryID *int64
	BrandID    *int64
	Price      decimal.Decimal
	Cost       decimal.Decimal
	MinStock   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// StockEntry is the on-hand quantity for one (product, branch) pair.
// The pair is unique, the quantity never goes negative, and the row is
// mutated only through ledger adjustments.
type StockEntry struct {
	ID        int64
	ProductID int64
	BranchID  int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Purchase struct {
	ID            int64
	SupplierID    int64
	BranchID      int64
	InvoiceNo     string
	Date          time.Time
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentStatus PurchasePaymentStatus
	Items         []PurchaseItem
	CreatedBy     *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PurchaseItem struct {
	ID         int64
	PurchaseID int64
	ProductID  int64
	Quantity   int
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}

type Sale struct {
	ID            int64
	BranchID      int64
	CustomerID    *int64
	InvoiceNo     string
	Date          time.Time
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
	PaidAmount    decimal.Decimal
	DueAmount     decimal.Decimal
	PaymentMethod string
	Status        SaleStatus
	Items         []SaleItem
	CreatedBy     *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

type SaleReturn struct {
	ID           int64
	SaleID       int64
	ProductID    int64
	Quantity     int
	Reason       string
	RefundAmount decimal.Decimal
	Status       ReturnStatus
	ProcessedBy  *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoyaltyAccount holds one customer's points. The identity
// PointsBalance == TotalEarned - TotalRedeemed holds after every mutation.
type LoyaltyAccount struct {
	ID            int64
	CustomerID    int64
	PointsBalance int64
	TotalEarned   int64
	TotalRedeemed int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LoyaltyTransaction is an append-only ledger entry. Never updated or deleted.
type LoyaltyTransaction struct {
	ID           int64
	CustomerID   int64
	Type         LoyaltyTxType
	Points       int64
	BalanceAfter int64
	Reason       string
	Ref          LedgerRef
	CreatedAt    time.Time
}

// InventoryLog is an append-only audit record of one stock movement.
type InventoryLog struct {
	ID             int64
	ProductID      int64
	BranchID       int64
	ChangeType     StockChangeType
	QuantityChange int
	PreviousStock  int
	NewStock       int
	Ref            LedgerRef
	CreatedBy      *int64
	CreatedAt      time.Time
}

type Expense struct {
	ID        int64
	BranchID  *int64
	Title     string
	Amount    decimal.Decimal
	Category  string
	Date      time.Time
	Note      string
	CreatedBy *int64
	CreatedAt time.Time
	DeletedAt *time.Time
}

type Notification struct {
	ID        int64
	BranchID  *int64
	Title     string
	Message   string
	Type      NotificationType
	CreatedAt time.Time
	ReadAt    *time.Time
}

type Settings struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	CurrencyCode    string
	LoyaltyEarnRate decimal.Decimal
	ReceiptFooter   string
	UpdatedAt       time.Time
}
