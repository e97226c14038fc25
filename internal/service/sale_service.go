package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
	"github.com/shopspring/decimal"
)

// SaleService owns the outbound side of the inventory ledger. Every
// mutation runs inside one transaction scope: header, line items, stock
// decrements, inventory logs and optional loyalty points commit or roll
// back together.
type SaleService struct {
	Scope   ports.TransactionScope
	Store   ports.Store
	Loyalty *LoyaltyService
	Logger  *slog.Logger
}

type SaleLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

type CreateSaleInput struct {
	BranchID      int64
	CustomerID    *int64
	InvoiceNo     string
	Date          time.Time
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Paid          decimal.Decimal
	PaymentMethod string
	Lines         []SaleLine
	AwardPoints   bool
	CreatedBy     *int64
}

// CreateSale validates stock for every line before any mutation, then
// commits the sale, the stock decrements and the audit trail as one
// atomic unit. A failed validation leaves the ledger untouched.
func (s *SaleService) CreateSale(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}
		if line.UnitPrice.IsNegative() {
			return nil, &domain.ValidationError{Field: "unitPrice", Reason: "must not be negative"}
		}
	}
	if in.Discount.IsNegative() || in.Tax.IsNegative() {
		return nil, &domain.ValidationError{Field: "amounts", Reason: "discount and tax must not be negative"}
	}
	if in.InvoiceNo == "" {
		in.InvoiceNo = fmt.Sprintf("INV-%d", time.Now().UnixNano()/1e6)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "cash"
	}

	var sale *domain.Sale
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		if err := checkBranch(ctx, st, in.BranchID); err != nil {
			return err
		}
		if in.CustomerID != nil {
			if err := checkCustomer(ctx, st, *in.CustomerID); err != nil {
				return err
			}
		}

		products := make(map[int64]*domain.Product, len(in.Lines))
		for _, line := range in.Lines {
			p, err := lookupProduct(ctx, st, line.ProductID)
			if err != nil {
				return err
			}
			products[line.ProductID] = p
		}

		// Validation phase: every line is checked before anything is
		// written, so a short line fails the whole sale cleanly.
		for _, line := range in.Lines {
			available, err := st.Stock().Quantity(ctx, line.ProductID, in.BranchID)
			if err != nil {
				return err
			}
			if available < line.Quantity {
				return &domain.InsufficientStockError{
					ProductID: line.ProductID,
					BranchID:  in.BranchID,
					Available: available,
					Requested: line.Quantity,
				}
			}
		}

		items := make([]domain.SaleItem, len(in.Lines))
		for i, line := range in.Lines {
			items[i] = domain.SaleItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  lineSubtotal(line.Quantity, line.UnitPrice),
			}
		}
		total, grand := docTotals(saleSubtotals(items), in.Discount, in.Tax)
		due, status, err := derivePayment(grand, in.Paid)
		if err != nil {
			return err
		}

		sale = &domain.Sale{
			BranchID:      in.BranchID,
			CustomerID:    in.CustomerID,
			InvoiceNo:     in.InvoiceNo,
			Date:          in.Date,
			TotalAmount:   total,
			Discount:      in.Discount,
			Tax:           in.Tax,
			GrandTotal:    grand,
			PaidAmount:    in.Paid,
			DueAmount:     due,
			PaymentMethod: in.PaymentMethod,
			Status:        status,
			Items:         items,
			CreatedBy:     in.CreatedBy,
		}
		if err := st.Sales().Insert(ctx, sale); err != nil {
			return err
		}

		for _, it := range sale.Items {
			if err := moveStock(ctx, st, stockMove{
				product:    products[it.ProductID],
				branchID:   in.BranchID,
				delta:      -it.Quantity,
				changeType: domain.ChangeSale,
				ref:        domain.SaleRef(sale.ID),
				createdBy:  in.CreatedBy,
			}); err != nil {
				return err
			}
		}

		if in.AwardPoints && in.CustomerID != nil && s.Loyalty != nil {
			if _, err := s.Loyalty.awardSalePoints(ctx, st, sale); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			stockRejections.Inc()
		}
		return nil, err
	}

	salesCreated.Inc()
	s.Logger.Info("sale created", "saleId", sale.ID, "invoice", sale.InvoiceNo, "grandTotal", sale.GrandTotal)
	return sale, nil
}

// UpdatePayment recomputes the due amount and the derived status from a
// new paid amount.
func (s *SaleService) UpdatePayment(ctx context.Context, saleID int64, paid decimal.Decimal) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		sale, err = st.Sales().Get(ctx, saleID)
		if err != nil {
			return saleRefErr(saleID, err)
		}
		if sale.Status == domain.SaleCancelled {
			return &domain.ValidationError{Field: "sale", Reason: "sale is cancelled"}
		}
		due, status, err := derivePayment(sale.GrandTotal, paid)
		if err != nil {
			return err
		}
		if err := st.Sales().SetPayment(ctx, saleID, paid, due, status); err != nil {
			return err
		}
		sale.PaidAmount, sale.DueAmount, sale.Status = paid, due, status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// AddItem appends one line to an existing sale, decrements stock and
// re-derives the totals.
func (s *SaleService) AddItem(ctx context.Context, saleID int64, line SaleLine, createdBy *int64) (*domain.Sale, error) {
	if line.Quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if line.UnitPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}

	var sale *domain.Sale
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		sale, err = st.Sales().Get(ctx, saleID)
		if err != nil {
			return saleRefErr(saleID, err)
		}
		if sale.Status == domain.SaleCancelled {
			return &domain.ValidationError{Field: "sale", Reason: "sale is cancelled"}
		}
		product, err := lookupProduct(ctx, st, line.ProductID)
		if err != nil {
			return err
		}

		available, err := st.Stock().Quantity(ctx, line.ProductID, sale.BranchID)
		if err != nil {
			return err
		}
		if available < line.Quantity {
			return &domain.InsufficientStockError{
				ProductID: line.ProductID,
				BranchID:  sale.BranchID,
				Available: available,
				Requested: line.Quantity,
			}
		}

		item := domain.SaleItem{
			SaleID:    saleID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  lineSubtotal(line.Quantity, line.UnitPrice),
		}
		if err := st.Sales().AddItem(ctx, &item); err != nil {
			return err
		}
		sale.Items = append(sale.Items, item)

		if err := moveStock(ctx, st, stockMove{
			product:    product,
			branchID:   sale.BranchID,
			delta:      -item.Quantity,
			changeType: domain.ChangeSale,
			ref:        domain.SaleRef(saleID),
			createdBy:  createdBy,
		}); err != nil {
			return err
		}

		return s.rederive(ctx, st, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RemoveItem deletes one line, restores its stock and re-derives the
// totals. Removing a line below the amount already paid is rejected.
func (s *SaleService) RemoveItem(ctx context.Context, saleID, itemID int64, createdBy *int64) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		sale, err = st.Sales().Get(ctx, saleID)
		if err != nil {
			return saleRefErr(saleID, err)
		}
		if sale.Status == domain.SaleCancelled {
			return &domain.ValidationError{Field: "sale", Reason: "sale is cancelled"}
		}
		removed, err := st.Sales().RemoveItem(ctx, saleID, itemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ReferenceNotFoundError{Kind: "sale item", ID: itemID}
			}
			return err
		}
		for i, it := range sale.Items {
			if it.ID == removed.ID {
				sale.Items = append(sale.Items[:i], sale.Items[i+1:]...)
				break
			}
		}

		product, err := lookupProduct(ctx, st, removed.ProductID)
		if err != nil {
			return err
		}
		if err := moveStock(ctx, st, stockMove{
			product:    product,
			branchID:   sale.BranchID,
			delta:      removed.Quantity,
			changeType: domain.ChangeAdjustment,
			ref:        domain.SaleRef(saleID),
			createdBy:  createdBy,
		}); err != nil {
			return err
		}

		return s.rederive(ctx, st, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Cancel reverses every line's stock effect and marks the sale
// cancelled. The reversal is logged per line.
func (s *SaleService) Cancel(ctx context.Context, saleID int64, cancelledBy *int64) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		sale, err = st.Sales().Get(ctx, saleID)
		if err != nil {
			return saleRefErr(saleID, err)
		}
		if sale.Status == domain.SaleCancelled {
			return &domain.ValidationError{Field: "sale", Reason: "sale is already cancelled"}
		}
		for _, it := range sale.Items {
			product, err := lookupProduct(ctx, st, it.ProductID)
			if err != nil {
				return err
			}
			if err := moveStock(ctx, st, stockMove{
				product:    product,
				branchID:   sale.BranchID,
				delta:      it.Quantity,
				changeType: domain.ChangeAdjustment,
				ref:        domain.SaleRef(saleID),
				createdBy:  cancelledBy,
			}); err != nil {
				return err
			}
		}
		if err := st.Sales().SetStatus(ctx, saleID, domain.SaleCancelled); err != nil {
			return err
		}
		sale.Status = domain.SaleCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("sale cancelled", "saleId", saleID)
	return sale, nil
}

func (s *SaleService) Get(ctx context.Context, saleID int64) (*domain.Sale, error) {
	return s.Store.Sales().Get(ctx, saleID)
}

func (s *SaleService) List(ctx context.Context, branchID *int64, limit int) ([]domain.Sale, error) {
	return s.Store.Sales().List(ctx, branchID, limit)
}

// rederive recomputes totals and payment state after a line mutation
// and persists both.
func (s *SaleService) rederive(ctx context.Context, st ports.Store, sale *domain.Sale) error {
	total, grand := docTotals(saleSubtotals(sale.Items), sale.Discount, sale.Tax)
	due, status, err := derivePayment(grand, sale.PaidAmount)
	if err != nil {
		return err
	}
	if err := st.Sales().SetTotals(ctx, sale.ID, total, grand); err != nil {
		return err
	}
	if err := st.Sales().SetPayment(ctx, sale.ID, sale.PaidAmount, due, status); err != nil {
		return err
	}
	sale.TotalAmount, sale.GrandTotal = total, grand
	sale.DueAmount, sale.Status = due, status
	return nil
}

func saleRefErr(saleID int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceNotFoundError{Kind: "sale", ID: saleID}
	}
	return err
}
