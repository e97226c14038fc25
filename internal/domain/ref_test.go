package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerRefValid(t *testing.T) {
	assert.True(t, PurchaseRef(1).Valid())
	assert.True(t, SaleRef(42).Valid())
	assert.True(t, SaleReturnRef(7).Valid())
	assert.True(t, ManualRef().Valid())

	assert.False(t, LedgerRef{Kind: RefSale}.Valid(), "document ref needs an id")
	assert.False(t, LedgerRef{Kind: RefManual, ID: 3}.Valid(), "manual ref carries no id")
	assert.False(t, LedgerRef{Kind: "voucher", ID: 1}.Valid(), "unknown kind")
}

func TestLedgerRefString(t *testing.T) {
	assert.Equal(t, "purchase #3", PurchaseRef(3).String())
	assert.Equal(t, "sale #9", SaleRef(9).String())
	assert.Equal(t, "sale return #2", SaleReturnRef(2).String())
	assert.Equal(t, "manual", ManualRef().String())
}
