package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
)

// stockMove is one ledger movement: the adjustment, its audit log entry
// and the low-stock alert all happen inside the caller's transaction.
type stockMove struct {
	product    *domain.Product
	branchID   int64
	delta      int
	changeType domain.StockChangeType
	ref        domain.LedgerRef
	createdBy  *int64
}

func moveStock(ctx context.Context, st ports.Store, m stockMove) error {
	entry, err := st.Stock().Adjust(ctx, m.product.ID, m.branchID, m.delta)
	if err != nil {
		return err
	}
	previous := entry.Quantity - m.delta

	if err := st.Logs().Append(ctx, &domain.InventoryLog{
		ProductID:      m.product.ID,
		BranchID:       m.branchID,
		ChangeType:     m.changeType,
		QuantityChange: m.delta,
		PreviousStock:  previous,
		NewStock:       entry.Quantity,
		Ref:            m.ref,
		CreatedBy:      m.createdBy,
	}); err != nil {
		return err
	}

	// Alert once when a decrement crosses the threshold.
	if m.delta < 0 && m.product.MinStock > 0 &&
		entry.Quantity <= m.product.MinStock && previous > m.product.MinStock {
		if err := st.Notifications().Insert(ctx, &domain.Notification{
			BranchID: &m.branchID,
			Title:    "Low stock: " + m.product.Name,
			Message:  fmt.Sprintf("%s is down to %d (minimum %d)", m.product.Name, entry.Quantity, m.product.MinStock),
			Type:     domain.NotificationLowStock,
		}); err != nil {
			return err
		}
	}
	return nil
}

func lookupProduct(ctx context.Context, st ports.Store, id int64) (*domain.Product, error) {
	p, err := st.Lookups().Product(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ReferenceNotFoundError{Kind: "product", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func checkBranch(ctx context.Context, st ports.Store, id int64) error {
	ok, err := st.Lookups().BranchExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ReferenceNotFoundError{Kind: "branch", ID: id}
	}
	return nil
}

func checkSupplier(ctx context.Context, st ports.Store, id int64) error {
	ok, err := st.Lookups().SupplierExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ReferenceNotFoundError{Kind: "supplier", ID: id}
	}
	return nil
}

func checkCustomer(ctx context.Context, st ports.Store, id int64) error {
	ok, err := st.Lookups().CustomerExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ReferenceNotFoundError{Kind: "customer", ID: id}
	}
	return nil
}
