package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BranchRepository struct {
	DB *db.Postgres
}

func (r BranchRepository) Create(ctx context.Context, name, address, phone string) (*domain.Branch, error) {
	var b domain.Branch
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO branches (name, address, phone)
		VALUES ($1,$2,$3)
		RETURNING id, name, address, phone, created_at, updated_at
	`, name, address, phone).Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r BranchRepository) Update(ctx context.Context, id int64, name, address, phone string) (*domain.Branch, error) {
	var b domain.Branch
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE branches SET name = $1, address = $2, phone = $3, updated_at = now()
		WHERE id = $4 AND deleted_at IS NULL
		RETURNING id, name, address, phone, created_at, updated_at
	`, name, address, phone, id).Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all active branches ordered alphabetically.
func (r BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, address, phone, created_at, updated_at
		FROM branches
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Branch
	for rows.Next() {
		var b domain.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r BranchRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE branches SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
