package repository

import (
	"context"
	"time"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/shopspring/decimal"
)

type ExpenseRepository struct {
	DB *db.Postgres
}

type CreateExpenseInput struct {
	BranchID  *int64
	Title     string
	Amount    decimal.Decimal
	Category  string
	Date      time.Time
	Note      string
	CreatedBy *int64
}

func (r ExpenseRepository) Create(ctx context.Context, in CreateExpenseInput) (*domain.Expense, error) {
	var e domain.Expense
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO expenses (branch_id, title, amount, category, expense_date, note, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, branch_id, title, amount, category, expense_date, note, created_by, created_at
	`, in.BranchID, in.Title, in.Amount, in.Category, in.Date, in.Note, in.CreatedBy).
		Scan(&e.ID, &e.BranchID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.Note, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r ExpenseRepository) List(ctx context.Context, branchID *int64, from, to *time.Time, limit int) ([]domain.Expense, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, branch_id, title, amount, category, expense_date, note, created_by, created_at
		FROM expenses
		WHERE deleted_at IS NULL
		  AND ($1::bigint IS NULL OR branch_id = $1)
		  AND ($2::date IS NULL OR expense_date >= $2)
		  AND ($3::date IS NULL OR expense_date <= $3)
		ORDER BY expense_date DESC, id DESC
		LIMIT $4
	`, branchID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.BranchID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r ExpenseRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE expenses SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Total sums expenses inside the filter window.
func (r ExpenseRepository) Total(ctx context.Context, branchID *int64, from, to *time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE deleted_at IS NULL
		  AND ($1::bigint IS NULL OR branch_id = $1)
		  AND ($2::date IS NULL OR expense_date >= $2)
		  AND ($3::date IS NULL OR expense_date <= $3)
	`, branchID, from, to).Scan(&total)
	return total, err
}
