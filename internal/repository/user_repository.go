package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	Name         string
	Email        string
	Phone        string
	BranchID     *int64
	Role         domain.UserRole
	PasswordHash *string
}

func (r UserRepository) Create(ctx context.Context, p CreateUserParams) (*domain.User, error) {
	var u domain.User
	var role string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, branch_id, role, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, name, email, phone, branch_id, role, password_hash, created_at, updated_at
	`, p.Name, p.Email, p.Phone, p.BranchID, string(p.Role), p.PasswordHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.BranchID, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r UserRepository) getBy(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var u domain.User
	var role string
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, branch_id, role, password_hash, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL AND `+cond, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.BranchID, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

func (r UserRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, email, phone, branch_id, role, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		var u domain.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.BranchID, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = domain.UserRole(role)
		items = append(items, u)
	}
	return items, rows.Err()
}

// IsDuplicate reports a unique-constraint collision (email in use).
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
