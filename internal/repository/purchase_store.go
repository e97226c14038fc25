package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type purchaseStore struct {
	q querier
}

func (s purchaseStore) Insert(ctx context.Context, p *domain.Purchase) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO purchases
			(supplier_id, branch_id, invoice_no, purchase_date, total_amount, discount, tax, grand_total, payment_status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`, p.SupplierID, p.BranchID, p.InvoiceNo, p.Date, p.TotalAmount, p.Discount, p.Tax, p.GrandTotal, string(p.PaymentStatus), p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return &domain.DuplicateInvoiceError{InvoiceNo: p.InvoiceNo}
		}
		return err
	}
	for i := range p.Items {
		p.Items[i].PurchaseID = p.ID
		if err := s.AddItem(ctx, &p.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s purchaseStore) AddItem(ctx context.Context, it *domain.PurchaseItem) error {
	return s.q.QueryRow(ctx, `
		INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, it.PurchaseID, it.ProductID, it.Quantity, it.UnitCost, it.Subtotal).Scan(&it.ID)
}

func (s purchaseStore) RemoveItem(ctx context.Context, purchaseID, itemID int64) (*domain.PurchaseItem, error) {
	var it domain.PurchaseItem
	err := s.q.QueryRow(ctx, `
		DELETE FROM purchase_items
		WHERE id = $1 AND purchase_id = $2
		RETURNING id, purchase_id, product_id, quantity, unit_cost, subtotal
	`, itemID, purchaseID).Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s purchaseStore) Get(ctx context.Context, id int64) (*domain.Purchase, error) {
	var p domain.Purchase
	var status string
	err := s.q.QueryRow(ctx, `
		SELECT id, supplier_id, branch_id, invoice_no, purchase_date, total_amount, discount, tax, grand_total, payment_status, created_by, created_at, updated_at
		FROM purchases
		WHERE id = $1
	`, id).Scan(&p.ID, &p.SupplierID, &p.BranchID, &p.InvoiceNo, &p.Date, &p.TotalAmount, &p.Discount, &p.Tax, &p.GrandTotal, &status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.PaymentStatus = domain.PurchasePaymentStatus(status)

	rows, err := s.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_items
		WHERE purchase_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, err
		}
		p.Items = append(p.Items, it)
	}
	return &p, rows.Err()
}

func (s purchaseStore) List(ctx context.Context, branchID *int64, limit int) ([]domain.Purchase, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, supplier_id, branch_id, invoice_no, purchase_date, total_amount, discount, tax, grand_total, payment_status, created_by, created_at, updated_at
		FROM purchases
		WHERE ($1::bigint IS NULL OR branch_id = $1)
		ORDER BY purchase_date DESC, id DESC
		LIMIT $2
	`, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		var status string
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.BranchID, &p.InvoiceNo, &p.Date, &p.TotalAmount, &p.Discount, &p.Tax, &p.GrandTotal, &status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.PaymentStatus = domain.PurchasePaymentStatus(status)
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s purchaseStore) SetTotals(ctx context.Context, id int64, total, grand decimal.Decimal) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE purchases SET total_amount = $1, grand_total = $2, updated_at = now()
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

func (s purchaseStore) SetPaymentStatus(ctx context.Context, id int64, status domain.PurchasePaymentStatus) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE purchases SET payment_status = $1, updated_at = now()
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
