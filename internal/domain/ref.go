package domain

import "fmt"

// RefKind tags the document a ledger entry points back at.
type RefKind string

const (
	RefPurchase   RefKind = "purchase"
	RefSale       RefKind = "sale"
	RefSaleReturn RefKind = "sale_return"
	RefManual     RefKind = "manual"
)

// LedgerRef links an inventory log or loyalty transaction to the
// purchase, sale or return that caused it. Manual entries carry no ID.
type LedgerRef struct {
	Kind RefKind
	ID   int64
}

func PurchaseRef(id int64) LedgerRef   { return LedgerRef{Kind: RefPurchase, ID: id} }
func SaleRef(id int64) LedgerRef       { return LedgerRef{Kind: RefSale, ID: id} }
func SaleReturnRef(id int64) LedgerRef { return LedgerRef{Kind: RefSaleReturn, ID: id} }
func ManualRef() LedgerRef             { return LedgerRef{Kind: RefManual} }

// Valid reports whether the kind is known and the ID is present for
// document-backed kinds.
func (r LedgerRef) Valid() bool {
	switch r.Kind {
	case RefPurchase, RefSale, RefSaleReturn:
		return r.ID > 0
	case RefManual:
		return r.ID == 0
	}
	return false
}

func (r LedgerRef) String() string {
	switch r.Kind {
	case RefPurchase:
		return fmt.Sprintf("purchase #%d", r.ID)
	case RefSale:
		return fmt.Sprintf("sale #%d", r.ID)
	case RefSaleReturn:
		return fmt.Sprintf("sale return #%d", r.ID)
	case RefManual:
		return "manual"
	}
	return "unknown"
}
