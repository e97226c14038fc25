package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

type lookups struct {
	q querier
}

func (l lookups) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := l.q.QueryRow(ctx, `
		SELECT id, name, sku, category_id, brand_id, price, cost, min_stock, created_at, updated_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.BrandID, &p.Price, &p.Cost, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (l lookups) BranchExists(ctx context.Context, id int64) (bool, error) {
	return l.exists(ctx, `SELECT EXISTS (SELECT 1 FROM branches WHERE id = $1 AND deleted_at IS NULL)`, id)
}

func (l lookups) SupplierExists(ctx context.Context, id int64) (bool, error) {
	return l.exists(ctx, `SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1 AND deleted_at IS NULL)`, id)
}

func (l lookups) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return l.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1 AND deleted_at IS NULL)`, id)
}

func (l lookups) exists(ctx context.Context, query string, id int64) (bool, error) {
	var ok bool
	err := l.q.QueryRow(ctx, query, id).Scan(&ok)
	return ok, err
}
