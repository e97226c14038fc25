package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type saleStore struct {
	q querier
}

func (s saleStore) Insert(ctx context.Context, sale *domain.Sale) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO sales
			(branch_id, customer_id, invoice_no, sale_date, total_amount, discount, tax, grand_total, paid_amount, due_amount, payment_method, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at
	`, sale.BranchID, sale.CustomerID, sale.InvoiceNo, sale.Date, sale.TotalAmount, sale.Discount, sale.Tax,
		sale.GrandTotal, sale.PaidAmount, sale.DueAmount, sale.PaymentMethod, string(sale.Status), sale.CreatedBy).
		Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return &domain.DuplicateInvoiceError{InvoiceNo: sale.InvoiceNo}
		}
		return err
	}
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		if err := s.AddItem(ctx, &sale.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s saleStore) AddItem(ctx context.Context, it *domain.SaleItem) error {
	return s.q.QueryRow(ctx, `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal).Scan(&it.ID)
}

func (s saleStore) RemoveItem(ctx context.Context, saleID, itemID int64) (*domain.SaleItem, error) {
	var it domain.SaleItem
	err := s.q.QueryRow(ctx, `
		DELETE FROM sale_items
		WHERE id = $1 AND sale_id = $2
		RETURNING id, sale_id, product_id, quantity, unit_price, subtotal
	`, itemID, saleID).Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s saleStore) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	var sale domain.Sale
	var status string
	err := s.q.QueryRow(ctx, `
		SELECT id, branch_id, customer_id, invoice_no, sale_date, total_amount, discount, tax, grand_total, paid_amount, due_amount, payment_method, status, created_by, created_at, updated_at
		FROM sales
		WHERE id = $1
	`, id).Scan(&sale.ID, &sale.BranchID, &sale.CustomerID, &sale.InvoiceNo, &sale.Date, &sale.TotalAmount,
		&sale.Discount, &sale.Tax, &sale.GrandTotal, &sale.PaidAmount, &sale.DueAmount, &sale.PaymentMethod,
		&status, &sale.CreatedBy, &sale.CreatedAt, &sale.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sale.Status = domain.SaleStatus(status)

	rows, err := s.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, it)
	}
	return &sale, rows.Err()
}

func (s saleStore) List(ctx context.Context, branchID *int64, limit int) ([]domain.Sale, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, branch_id, customer_id, invoice_no, sale_date, total_amount, discount, tax, grand_total, paid_amount, due_amount, payment_method, status, created_by, created_at, updated_at
		FROM sales
		WHERE ($1::bigint IS NULL OR branch_id = $1)
		ORDER BY sale_date DESC, id DESC
		LIMIT $2
	`, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		var status string
		if err := rows.Scan(&sale.ID, &sale.BranchID, &sale.CustomerID, &sale.InvoiceNo, &sale.Date, &sale.TotalAmount,
			&sale.Discount, &sale.Tax, &sale.GrandTotal, &sale.PaidAmount, &sale.DueAmount, &sale.PaymentMethod,
			&status, &sale.CreatedBy, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
			return nil, err
		}
		sale.Status = domain.SaleStatus(status)
		items = append(items, sale)
	}
	return items, rows.Err()
}

func (s saleStore) SetTotals(ctx context.Context, id int64, total, grand decimal.Decimal) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE sales SET total_amount = $1, grand_total = $2, updated_at = now()
		WHERE id = $3
	`, total, grand, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s saleStore) SetPayment(ctx context.Context, id int64, paid, due decimal.Decimal, status domain.SaleStatus) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE sales SET paid_amount = $1, due_amount = $2, status = $3, updated_at = now()
		WHERE id = $4
	`, paid, due, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s saleStore) SetStatus(ctx context.Context, id int64, status domain.SaleStatus) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE sales SET status = $1, updated_at = now()
		WHERE id = $2
	`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
