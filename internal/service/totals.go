package service

import (
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/shopspring/decimal"
)

// Total derivation lives here and only here. Every mutating path on a
// purchase or sale (create, add item, remove item, payment update) goes
// through these functions so the arithmetic cannot drift between call
// sites.

func lineSubtotal(quantity int, unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// docTotals returns totalAmount and grandTotal = total - discount + tax.
func docTotals(subtotals []decimal.Decimal, discount, tax decimal.Decimal) (total, grand decimal.Decimal) {
	total = decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}
	grand = total.Sub(discount).Add(tax)
	return total, grand
}

func purchaseSubtotals(items []domain.PurchaseItem) []decimal.Decimal {
	out := make([]decimal.Decimal, len(items))
	for i, it := range items {
		out[i] = it.Subtotal
	}
	return out
}

func saleSubtotals(items []domain.SaleItem) []decimal.Decimal {
	out := make([]decimal.Decimal, len(items))
	for i, it := range items {
		out[i] = it.Subtotal
	}
	return out
}

// derivePayment validates the paid amount against the grand total and
// derives dueAmount plus the payment-driven status.
func derivePayment(grand, paid decimal.Decimal) (due decimal.Decimal, status domain.SaleStatus, err error) {
	if paid.IsNegative() {
		return decimal.Zero, "", &domain.InvalidPaymentError{Reason: "paid amount is negative"}
	}
	if paid.GreaterThan(grand) {
		return decimal.Zero, "", &domain.InvalidPaymentError{Reason: "paid amount exceeds grand total"}
	}
	due = grand.Sub(paid)
	switch {
	case due.IsZero():
		status = domain.SaleCompleted
	case paid.IsZero():
		status = domain.SalePending
	default:
		status = domain.SalePartial
	}
	return due, status, nil
}

// salePoints converts a sale's grand total into loyalty points:
// floor(grandTotal * earnRate), never negative.
func salePoints(grand, earnRate decimal.Decimal) int64 {
	points := grand.Mul(earnRate).Floor().IntPart()
	if points < 0 {
		return 0
	}
	return points
}

// returnableQuantity is the shared eligibility arithmetic for sale
// returns: how much of a line can still come back.
func returnableQuantity(sold, alreadyReturned int) int {
	remaining := sold - alreadyReturned
	if remaining < 0 {
		return 0
	}
	return remaining
}
