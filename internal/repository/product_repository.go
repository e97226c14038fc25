package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	DB *db.Postgres
}

type SaveProductInput struct {
	Name       string
	SKU        string
	CategoryID *int64
	BrandID    *int64
	Price      decimal.Decimal
	Cost       decimal.Decimal
	MinStock   int
}

func (r ProductRepository) Create(ctx context.Context, in SaveProductInput) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO products (name, sku, category_id, brand_id, price, cost, min_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, name, sku, category_id, brand_id, price, cost, min_stock, created_at, updated_at
	`, in.Name, in.SKU, in.CategoryID, in.BrandID, in.Price, in.Cost, in.MinStock).
		Scan(&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.BrandID, &p.Price, &p.Cost, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Update(ctx context.Context, id int64, in SaveProductInput) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, sku = $2, category_id = $3, brand_id = $4, price = $5, cost = $6, min_stock = $7, updated_at = now()
		WHERE id = $8 AND deleted_at IS NULL
		RETURNING id, name, sku, category_id, brand_id, price, cost, min_stock, created_at, updated_at
	`, in.Name, in.SKU, in.CategoryID, in.BrandID, in.Price, in.Cost, in.MinStock, id).
		Scan(&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.BrandID, &p.Price, &p.Cost, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return lookups{r.DB.Pool}.Product(ctx, id)
}

func (r ProductRepository) List(ctx context.Context, search string, limit int) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, sku, category_id, brand_id, price, cost, min_stock, created_at, updated_at
		FROM products
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2
	`, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.BrandID, &p.Price, &p.Cost, &p.MinStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE products SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LowStockItem pairs a stock entry with the product threshold it sits under.
type LowStockItem struct {
	ProductID   int64
	ProductName string
	BranchID    int64
	Quantity    int
	MinStock    int
}

// LowStock lists (product, branch) pairs whose on-hand quantity sits at
// or below the product's min stock.
func (r ProductRepository) LowStock(ctx context.Context, branchID *int64, limit int) ([]LowStockItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT p.id, p.name, se.branch_id, se.quantity, p.min_stock
		FROM stock_entries se
		JOIN products p ON p.id = se.product_id AND p.deleted_at IS NULL
		WHERE p.min_stock > 0
		  AND se.quantity <= p.min_stock
		  AND ($1::bigint IS NULL OR se.branch_id = $1)
		ORDER BY se.quantity ASC
		LIMIT $2
	`, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.BranchID, &it.Quantity, &it.MinStock); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
