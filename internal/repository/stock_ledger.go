package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

type stockLedger struct {
	q querier
}

// Adjust locks the (product, branch) row before applying the delta so
// concurrent check-then-write sequences cannot overdraw it. A missing
// entry is created on first movement; a decrement against a missing
// entry counts as zero stock.
func (l stockLedger) Adjust(ctx context.Context, productID, branchID int64, delta int) (*domain.StockEntry, error) {
	var e domain.StockEntry
	err := l.q.QueryRow(ctx, `
		SELECT id, product_id, branch_id, quantity, created_at, updated_at
		FROM stock_entries
		WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE
	`, productID, branchID).Scan(&e.ID, &e.ProductID, &e.BranchID, &e.Quantity, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		if delta < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID: productID,
				BranchID:  branchID,
				Available: 0,
				Requested: -delta,
			}
		}
		// ON CONFLICT absorbs a concurrent first movement for the same pair.
		err = l.q.QueryRow(ctx, `
			INSERT INTO stock_entries (product_id, branch_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id, branch_id)
				DO UPDATE SET quantity = stock_entries.quantity + EXCLUDED.quantity,
				              updated_at = now()
			RETURNING id, product_id, branch_id, quantity, created_at, updated_at
		`, productID, branchID, delta).Scan(&e.ID, &e.ProductID, &e.BranchID, &e.Quantity, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &e, nil
	}
	if err != nil {
		return nil, err
	}

	next := e.Quantity + delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			BranchID:  branchID,
			Available: e.Quantity,
			Requested: -delta,
		}
	}
	err = l.q.QueryRow(ctx, `
		UPDATE stock_entries
		SET quantity = $1, updated_at = now()
		WHERE id = $2
		RETURNING quantity, updated_at
	`, next, e.ID).Scan(&e.Quantity, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (l stockLedger) Quantity(ctx context.Context, productID, branchID int64) (int, error) {
	var qty int
	err := l.q.QueryRow(ctx, `
		SELECT quantity FROM stock_entries
		WHERE product_id = $1 AND branch_id = $2
	`, productID, branchID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

func (l stockLedger) List(ctx context.Context, branchID *int64, limit int) ([]domain.StockEntry, error) {
	rows, err := l.q.Query(ctx, `
		SELECT id, product_id, branch_id, quantity, created_at, updated_at
		FROM stock_entries
		WHERE ($1::bigint IS NULL OR branch_id = $1)
		ORDER BY product_id, branch_id
		LIMIT $2
	`, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.StockEntry
	for rows.Next() {
		var e domain.StockEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.BranchID, &e.Quantity, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
