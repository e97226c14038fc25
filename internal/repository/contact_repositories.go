package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SupplierRepository and CustomerRepository share the same shape; both
// are plain filtered-query CRUD.

type SupplierRepository struct {
	DB *db.Postgres
}

type ContactInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func (r SupplierRepository) Create(ctx context.Context, in ContactInput) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, phone, email, address)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, phone, email, address, created_at, updated_at
	`, in.Name, in.Phone, in.Email, in.Address).
		Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r SupplierRepository) Update(ctx context.Context, id int64, in ContactInput) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE suppliers SET name = $1, phone = $2, email = $3, address = $4, updated_at = now()
		WHERE id = $5 AND deleted_at IS NULL
		RETURNING id, name, phone, email, address, created_at, updated_at
	`, in.Name, in.Phone, in.Email, in.Address, id).
		Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r SupplierRepository) List(ctx context.Context, search string, limit int) ([]domain.Supplier, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, email, address, created_at, updated_at
		FROM suppliers
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2
	`, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Supplier
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r SupplierRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE suppliers SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type CustomerRepository struct {
	DB *db.Postgres
}

func (r CustomerRepository) Create(ctx context.Context, in ContactInput) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, email, address)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, phone, email, address, created_at, updated_at
	`, in.Name, in.Phone, in.Email, in.Address).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) Update(ctx context.Context, id int64, in ContactInput) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE customers SET name = $1, phone = $2, email = $3, address = $4, updated_at = now()
		WHERE id = $5 AND deleted_at IS NULL
		RETURNING id, name, phone, email, address, created_at, updated_at
	`, in.Name, in.Phone, in.Email, in.Address, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, phone, email, address, created_at, updated_at
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) List(ctx context.Context, search string, limit int) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, email, address, created_at, updated_at
		FROM customers
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2
	`, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CustomerRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE customers SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
