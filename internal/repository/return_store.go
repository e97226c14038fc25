package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

type returnStore struct {
	q querier
}

func (s returnStore) Insert(ctx context.Context, r *domain.SaleReturn) error {
	return s.q.QueryRow(ctx, `
		INSERT INTO sale_returns (sale_id, product_id, quantity, reason, refund_amount, status, processed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at
	`, r.SaleID, r.ProductID, r.Quantity, r.Reason, r.RefundAmount, string(r.Status), r.ProcessedBy).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (s returnStore) Get(ctx context.Context, id int64) (*domain.SaleReturn, error) {
	var r domain.SaleReturn
	var status string
	err := s.q.QueryRow(ctx, `
		SELECT id, sale_id, product_id, quantity, reason, refund_amount, status, processed_by, created_at, updated_at
		FROM sale_returns
		WHERE id = $1
	`, id).Scan(&r.ID, &r.SaleID, &r.ProductID, &r.Quantity, &r.Reason, &r.RefundAmount, &status, &r.ProcessedBy, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReturnStatus(status)
	return &r, nil
}

func (s returnStore) ListBySale(ctx context.Context, saleID int64) ([]domain.SaleReturn, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, reason, refund_amount, status, processed_by, created_at, updated_at
		FROM sale_returns
		WHERE sale_id = $1
		ORDER BY id
	`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.SaleReturn
	for rows.Next() {
		var r domain.SaleReturn
		var status string
		if err := rows.Scan(&r.ID, &r.SaleID, &r.ProductID, &r.Quantity, &r.Reason, &r.RefundAmount, &status, &r.ProcessedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Status = domain.ReturnStatus(status)
		items = append(items, r)
	}
	return items, rows.Err()
}

func (s returnStore) ReturnedQuantity(ctx context.Context, saleID, productID int64) (int, error) {
	var sum int
	err := s.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM sale_returns
		WHERE sale_id = $1 AND product_id = $2 AND status <> 'rejected'
	`, saleID, productID).Scan(&sum)
	return sum, err
}

func (s returnStore) SetStatus(ctx context.Context, id int64, status domain.ReturnStatus, processedBy *int64) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE sale_returns SET status = $1, processed_by = COALESCE($2, processed_by), updated_at = now()
		WHERE id = $3
	`, string(status), processedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s returnStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM sale_returns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
