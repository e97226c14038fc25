package repository

import (
	"context"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type inventoryLogStore struct {
	q querier
}

func (s inventoryLogStore) Append(ctx context.Context, l *domain.InventoryLog) error {
	var refID *int64
	if l.Ref.Kind != domain.RefManual {
		refID = &l.Ref.ID
	}
	return s.q.QueryRow(ctx, `
		INSERT INTO inventory_logs
			(product_id, branch_id, change_type, quantity_change, previous_stock, new_stock, reference_type, reference_id, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`, l.ProductID, l.BranchID, string(l.ChangeType), l.QuantityChange, l.PreviousStock, l.NewStock,
		string(l.Ref.Kind), refID, l.CreatedBy).Scan(&l.ID, &l.CreatedAt)
}

func (s inventoryLogStore) List(ctx context.Context, productID, branchID *int64, limit int) ([]domain.InventoryLog, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, product_id, branch_id, change_type, quantity_change, previous_stock, new_stock, reference_type, reference_id, created_by, created_at
		FROM inventory_logs
		WHERE ($1::bigint IS NULL OR product_id = $1)
		  AND ($2::bigint IS NULL OR branch_id = $2)
		ORDER BY id DESC
		LIMIT $3
	`, productID, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryLog
	for rows.Next() {
		var l domain.InventoryLog
		var changeType, refKind string
		var refID pgtype.Int8
		if err := rows.Scan(&l.ID, &l.ProductID, &l.BranchID, &changeType, &l.QuantityChange, &l.PreviousStock,
			&l.NewStock, &refKind, &refID, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.ChangeType = domain.StockChangeType(changeType)
		l.Ref = domain.LedgerRef{Kind: domain.RefKind(refKind)}
		if refID.Valid {
			l.Ref.ID = refID.Int64
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
