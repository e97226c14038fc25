package repository

import (
	"context"

	"github.com/alamin00006/business-management/internal/db"
)

// Seed inserts a small demo data set: one branch, basic categories and
// a few products. Safe to run more than once.
func Seed(ctx context.Context, pg *db.Postgres) error {
	_, err := pg.Pool.Exec(ctx, `
		INSERT INTO branches (name, address, phone)
		SELECT 'Main Branch', 'Head office', ''
		WHERE NOT EXISTS (SELECT 1 FROM branches)
	`)
	if err != nil {
		return err
	}

	_, err = pg.Pool.Exec(ctx, `
		INSERT INTO categories (name)
		SELECT unnest(ARRAY['Beverages', 'Snacks', 'Household', 'Personal Care'])
		WHERE NOT EXISTS (SELECT 1 FROM categories)
	`)
	if err != nil {
		return err
	}

	_, err = pg.Pool.Exec(ctx, `
		INSERT INTO products (name, sku, price, cost, min_stock)
		SELECT * FROM (VALUES
			('Drinking Water 600ml', 'SKU-0001', 0.50, 0.30, 24),
			('Instant Noodles',      'SKU-0002', 0.80, 0.55, 12),
			('Dish Soap 500ml',      'SKU-0003', 2.20, 1.60, 6)
		) AS v(name, sku, price, cost, min_stock)
		WHERE NOT EXISTS (SELECT 1 FROM products)
	`)
	return err
}
