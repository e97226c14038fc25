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

// PurchaseService is the inbound mirror of SaleService: supplier
// receipts increase the stock ledger inside the same atomic unit that
// persists the document.
type PurchaseService struct {
	Scope  ports.TransactionScope
	Store  ports.Store
	Logger *slog.Logger
}

type PurchaseLine struct {
	ProductID int64
	Quantity  int
	UnitCost  decimal.Decimal
}

type CreatePurchaseInput struct {
	SupplierID    int64
	BranchID      int64
	InvoiceNo     string
	Date          time.Time
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	PaymentStatus domain.PurchasePaymentStatus
	Lines         []PurchaseLine
	CreatedBy     *int64
}

func (s *PurchaseService) CreatePurchase(ctx context.Context, in CreatePurchaseInput) (*domain.Purchase, error) {
	if len(in.Lines) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}
		if line.UnitCost.IsNegative() {
			return nil, &domain.ValidationError{Field: "unitCost", Reason: "must not be negative"}
		}
	}
	if in.Discount.IsNegative() || in.Tax.IsNegative() {
		return nil, &domain.ValidationError{Field: "amounts", Reason: "discount and tax must not be negative"}
	}
	if in.InvoiceNo == "" {
		in.InvoiceNo = fmt.Sprintf("PUR-%d", time.Now().UnixNano()/1e6)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = domain.PurchaseUnpaid
	}

	var purchase *domain.Purchase
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		if err := checkSupplier(ctx, st, in.SupplierID); err != nil {
			return err
		}
		if err := checkBranch(ctx, st, in.BranchID); err != nil {
			return err
		}
		products := make(map[int64]*domain.Product, len(in.Lines))
		for _, line := range in.Lines {
			p, err := lookupProduct(ctx, st, line.ProductID)
			if err != nil {
				return err
			}
			products[line.ProductID] = p
		}

		items := make([]domain.PurchaseItem, len(in.Lines))
		for i, line := range in.Lines {
			items[i] = domain.PurchaseItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitCost:  line.UnitCost,
				Subtotal:  lineSubtotal(line.Quantity, line.UnitCost),
			}
		}
		total, grand := docTotals(purchaseSubtotals(items), in.Discount, in.Tax)

		purchase = &domain.Purchase{
			SupplierID:    in.SupplierID,
			BranchID:      in.BranchID,
			InvoiceNo:     in.InvoiceNo,
			Date:          in.Date,
			TotalAmount:   total,
			Discount:      in.Discount,
			Tax:           in.Tax,
			GrandTotal:    grand,
			PaymentStatus: in.PaymentStatus,
			Items:         items,
			CreatedBy:     in.CreatedBy,
		}
		if err := st.Purchases().Insert(ctx, purchase); err != nil {
			return err
		}

		for _, it := range purchase.Items {
			if err := moveStock(ctx, st, stockMove{
				product:    products[it.ProductID],
				branchID:   in.BranchID,
				delta:      it.Quantity,
				changeType: domain.ChangePurchase,
				ref:        domain.PurchaseRef(purchase.ID),
				createdBy:  in.CreatedBy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchasesCreated.Inc()
	s.Logger.Info("purchase created", "purchaseId", purchase.ID, "invoice", purchase.InvoiceNo, "grandTotal", purchase.GrandTotal)
	return purchase, nil
}

// AddItem appends one line to an existing purchase, increments stock
// and re-derives the totals.
func (s *PurchaseService) AddItem(ctx context.Context, purchaseID int64, line PurchaseLine, createdBy *int64) (*domain.Purchase, error) {
	if line.Quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if line.UnitCost.IsNegative() {
		return nil, &domain.ValidationError{Field: "unitCost", Reason: "must not be negative"}
	}

	var purchase *domain.Purchase
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		purchase, err = st.Purchases().Get(ctx, purchaseID)
		if err != nil {
			return purchaseRefErr(purchaseID, err)
		}
		product, err := lookupProduct(ctx, st, line.ProductID)
		if err != nil {
			return err
		}

		item := domain.PurchaseItem{
			PurchaseID: purchaseID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
			Subtotal:   lineSubtotal(line.Quantity, line.UnitCost),
		}
		if err := st.Purchases().AddItem(ctx, &item); err != nil {
			return err
		}
		purchase.Items = append(purchase.Items, item)

		if err := moveStock(ctx, st, stockMove{
			product:    product,
			branchID:   purchase.BranchID,
			delta:      item.Quantity,
			changeType: domain.ChangePurchase,
			ref:        domain.PurchaseRef(purchaseID),
			createdBy:  createdBy,
		}); err != nil {
			return err
		}

		return s.rederive(ctx, st, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// RemoveItem deletes one line and takes its quantity back out of the
// ledger; failing with insufficient stock if the goods already left.
func (s *PurchaseService) RemoveItem(ctx context.Context, purchaseID, itemID int64, createdBy *int64) (*domain.Purchase, error) {
	var purchase *domain.Purchase
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		purchase, err = st.Purchases().Get(ctx, purchaseID)
		if err != nil {
			return purchaseRefErr(purchaseID, err)
		}
		removed, err := st.Purchases().RemoveItem(ctx, purchaseID, itemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ReferenceNotFoundError{Kind: "purchase item", ID: itemID}
			}
			return err
		}
		for i, it := range purchase.Items {
			if it.ID == removed.ID {
				purchase.Items = append(purchase.Items[:i], purchase.Items[i+1:]...)
				break
			}
		}

		product, err := lookupProduct(ctx, st, removed.ProductID)
		if err != nil {
			return err
		}
		if err := moveStock(ctx, st, stockMove{
			product:    product,
			branchID:   purchase.BranchID,
			delta:      -removed.Quantity,
			changeType: domain.ChangeAdjustment,
			ref:        domain.PurchaseRef(purchaseID),
			createdBy:  createdBy,
		}); err != nil {
			return err
		}

		return s.rederive(ctx, st, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *PurchaseService) SetPaymentStatus(ctx context.Context, purchaseID int64, status domain.PurchasePaymentStatus) error {
	switch status {
	case domain.PurchaseUnpaid, domain.PurchasePartial, domain.PurchasePaid:
	default:
		return &domain.ValidationError{Field: "paymentStatus", Reason: "unknown status"}
	}
	err := s.Store.Purchases().SetPaymentStatus(ctx, purchaseID, status)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceNotFoundError{Kind: "purchase", ID: purchaseID}
	}
	return err
}

func (s *PurchaseService) Get(ctx context.Context, purchaseID int64) (*domain.Purchase, error) {
	return s.Store.Purchases().Get(ctx, purchaseID)
}

func (s *PurchaseService) List(ctx context.Context, branchID *int64, limit int) ([]domain.Purchase, error) {
	return s.Store.Purchases().List(ctx, branchID, limit)
}

func (s *PurchaseService) rederive(ctx context.Context, st ports.Store, p *domain.Purchase) error {
	total, grand := docTotals(purchaseSubtotals(p.Items), p.Discount, p.Tax)
	if err := st.Purchases().SetTotals(ctx, p.ID, total, grand); err != nil {
		return err
	}
	p.TotalAmount, p.GrandTotal = total, grand
	return nil
}

func purchaseRefErr(purchaseID int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceNotFoundError{Kind: "purchase", ID: purchaseID}
	}
	return err
}
