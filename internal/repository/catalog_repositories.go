package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository struct {
	DB *db.Postgres
}

func (r CategoryRepository) Create(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r CategoryRepository) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE categories SET name = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, name, created_at, updated_at
	`, name, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CategoryRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE categories SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type BrandRepository struct {
	DB *db.Postgres
}

func (r BrandRepository) Create(ctx context.Context, name string) (*domain.Brand, error) {
	var b domain.Brand
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO brands (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r BrandRepository) Update(ctx context.Context, id int64, name string) (*domain.Brand, error) {
	var b domain.Brand
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE brands SET name = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id, name, created_at, updated_at
	`, name, id).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r BrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM brands
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r BrandRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE brands SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
