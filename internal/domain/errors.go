package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// InsufficientStockError rejects a decrement that would take a
// (product, branch) quantity below zero.
type InsufficientStockError struct {
	ProductID int64
	BranchID  int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d at branch %d: available %d, requested %d",
		e.ProductID, e.BranchID, e.Available, e.Requested)
}

// DuplicateInvoiceError signals an invoice number collision.
type DuplicateInvoiceError struct {
	InvoiceNo string
}

func (e *DuplicateInvoiceError) Error() string {
	return fmt.Sprintf("invoice %q already exists", e.InvoiceNo)
}

// ReferenceNotFoundError signals a dangling reference to a product,
// branch, supplier, customer or sale.
type ReferenceNotFoundError struct {
	Kind string
	ID   int64
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ReturnExceedsQuantityError rejects a return whose quantity, together
// with prior non-rejected returns, exceeds the quantity originally sold.
type ReturnExceedsQuantityError struct {
	SaleID          int64
	ProductID       int64
	Sold            int
	AlreadyReturned int
	Requested       int
}

func (e *ReturnExceedsQuantityError) Error() string {
	return fmt.Sprintf("return of %d exceeds remaining quantity for sale %d product %d: sold %d, already returned %d",
		e.Requested, e.SaleID, e.ProductID, e.Sold, e.AlreadyReturned)
}

// RefundExceedsValueError rejects a refund above quantity x unit price.
type RefundExceedsValueError struct {
	SaleID    int64
	ProductID int64
	Refund    decimal.Decimal
	MaxRefund decimal.Decimal
}

func (e *RefundExceedsValueError) Error() string {
	return fmt.Sprintf("refund %s exceeds max %s for sale %d product %d",
		e.Refund, e.MaxRefund, e.SaleID, e.ProductID)
}

// InsufficientPointsError rejects a redemption above the current balance.
type InsufficientPointsError struct {
	CustomerID int64
	Balance    int64
	Requested  int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points for customer %d: balance %d, requested %d",
		e.CustomerID, e.Balance, e.Requested)
}

// InvalidPaymentError rejects a paid amount that is negative or exceeds
// the grand total.
type InvalidPaymentError struct {
	Reason string
}

func (e *InvalidPaymentError) Error() string {
	return "invalid payment: " + e.Reason
}

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError wraps a serialization or deadlock failure. The caller
// may retry the whole operation.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string {
	return "transaction conflict: " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error { return e.Err }

// TransactionTimeoutError reports a statement or transaction timeout.
type TransactionTimeoutError struct {
	Err error
}

func (e *TransactionTimeoutError) Error() string {
	return "transaction timeout: " + e.Err.Error()
}

func (e *TransactionTimeoutError) Unwrap() error { return e.Err }
