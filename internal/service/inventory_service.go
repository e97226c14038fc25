package service

import (
	"context"
	"log/slog"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
)

// InventoryService covers the stock operations that are not driven by a
// purchase, sale or return: manual adjustments and ledger reads.
type InventoryService struct {
	Scope  ports.TransactionScope
	Store  ports.Store
	Logger *slog.Logger
}

// AdjustStock applies a signed manual correction. The adjustment, its
// audit log entry and any low-stock alert commit together.
func (s *InventoryService) AdjustStock(ctx context.Context, productID, branchID int64, delta int, createdBy *int64) (*domain.StockEntry, error) {
	if delta == 0 {
		return nil, &domain.ValidationError{Field: "change", Reason: "must not be zero"}
	}
	var entry *domain.StockEntry
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		product, err := lookupProduct(ctx, st, productID)
		if err != nil {
			return err
		}
		if err := checkBranch(ctx, st, branchID); err != nil {
			return err
		}
		if err := moveStock(ctx, st, stockMove{
			product:    product,
			branchID:   branchID,
			delta:      delta,
			changeType: domain.ChangeAdjustment,
			ref:        domain.ManualRef(),
			createdBy:  createdBy,
		}); err != nil {
			return err
		}
		entry, err = currentEntry(ctx, st, productID, branchID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("stock adjusted",
		"product_id", productID, "branch_id", branchID, "delta", delta, "quantity", entry.Quantity)
	return entry, nil
}

func (s *InventoryService) Quantity(ctx context.Context, productID, branchID int64) (int, error) {
	return s.Store.Stock().Quantity(ctx, productID, branchID)
}

func (s *InventoryService) ListStock(ctx context.Context, branchID *int64, limit int) ([]domain.StockEntry, error) {
	return s.Store.Stock().List(ctx, branchID, limit)
}

func (s *InventoryService) Logs(ctx context.Context, productID, branchID *int64, limit int) ([]domain.InventoryLog, error) {
	return s.Store.Logs().List(ctx, productID, branchID, limit)
}

func currentEntry(ctx context.Context, st ports.Store, productID, branchID int64) (*domain.StockEntry, error) {
	qty, err := st.Stock().Quantity(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	return &domain.StockEntry{ProductID: productID, BranchID: branchID, Quantity: qty}, nil
}
