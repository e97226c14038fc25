package repository

import (
	"context"
	"time"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/shopspring/decimal"
)

// ReportRepository serves the plain aggregation reads behind the
// reports endpoints. Nothing here mutates state.
type ReportRepository struct {
	DB *db.Postgres
}

type DaySummary struct {
	Date       time.Time
	Count      int
	GrandTotal decimal.Decimal
	Paid       decimal.Decimal
	Due        decimal.Decimal
}

func (r ReportRepository) SalesByDay(ctx context.Context, branchID *int64, from, to time.Time) ([]DaySummary, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT sale_date, COUNT(*), COALESCE(SUM(grand_total), 0), COALESCE(SUM(paid_amount), 0), COALESCE(SUM(due_amount), 0)
		FROM sales
		WHERE status <> 'cancelled'
		  AND ($1::bigint IS NULL OR branch_id = $1)
		  AND sale_date BETWEEN $2 AND $3
		GROUP BY sale_date
		ORDER BY sale_date
	`, branchID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DaySummary
	for rows.Next() {
		var d DaySummary
		if err := rows.Scan(&d.Date, &d.Count, &d.GrandTotal, &d.Paid, &d.Due); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r ReportRepository) PurchasesByDay(ctx context.Context, branchID *int64, from, to time.Time) ([]DaySummary, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT purchase_date, COUNT(*), COALESCE(SUM(grand_total), 0), 0, 0
		FROM purchases
		WHERE ($1::bigint IS NULL OR branch_id = $1)
		  AND purchase_date BETWEEN $2 AND $3
		GROUP BY purchase_date
		ORDER BY purchase_date
	`, branchID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DaySummary
	for rows.Next() {
		var d DaySummary
		if err := rows.Scan(&d.Date, &d.Count, &d.GrandTotal, &d.Paid, &d.Due); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
