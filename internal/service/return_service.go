package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
	"github.com/shopspring/decimal"
)

// ReturnService reverses part of a sale: the return record, the stock
// restoration and the audit log commit together.
type ReturnService struct {
	Scope ports.TransactionScope
	Store ports.Store
	// AutoApprove creates returns in approved state; otherwise they
	// start pending and are approved or rejected later.
	AutoApprove bool
	Logger      *slog.Logger
}

type CreateReturnInput struct {
	SaleID       int64
	ProductID    int64
	Quantity     int
	Reason       string
	RefundAmount decimal.Decimal
	ProcessedBy  *int64
}

// ReturnEligibility is the read-only precomputation exposed for client
// pre-checks. It uses the same arithmetic as CreateReturn.
type ReturnEligibility struct {
	Sold              int
	AlreadyReturned   int
	AvailableToReturn int
	UnitPrice         decimal.Decimal
	MaxRefund         decimal.Decimal
}

func (s *ReturnService) CreateReturn(ctx context.Context, in CreateReturnInput) (*domain.SaleReturn, error) {
	if in.Quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if in.RefundAmount.IsNegative() {
		return nil, &domain.ValidationError{Field: "refundAmount", Reason: "must not be negative"}
	}

	var ret *domain.SaleReturn
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		sale, err := st.Sales().Get(ctx, in.SaleID)
		if err != nil {
			return saleRefErr(in.SaleID, err)
		}
		line := findSaleItem(sale, in.ProductID)
		if line == nil {
			return &domain.ReferenceNotFoundError{Kind: "sale item for product", ID: in.ProductID}
		}

		already, err := st.Returns().ReturnedQuantity(ctx, in.SaleID, in.ProductID)
		if err != nil {
			return err
		}
		if in.Quantity > returnableQuantity(line.Quantity, already) {
			return &domain.ReturnExceedsQuantityError{
				SaleID:          in.SaleID,
				ProductID:       in.ProductID,
				Sold:            line.Quantity,
				AlreadyReturned: already,
				Requested:       in.Quantity,
			}
		}
		maxRefund := lineSubtotal(in.Quantity, line.UnitPrice)
		if in.RefundAmount.GreaterThan(maxRefund) {
			return &domain.RefundExceedsValueError{
				SaleID:    in.SaleID,
				ProductID: in.ProductID,
				Refund:    in.RefundAmount,
				MaxRefund: maxRefund,
			}
		}

		status := domain.ReturnPending
		if s.AutoApprove {
			status = domain.ReturnApproved
		}
		ret = &domain.SaleReturn{
			SaleID:       in.SaleID,
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			Reason:       in.Reason,
			RefundAmount: in.RefundAmount,
			Status:       status,
			ProcessedBy:  in.ProcessedBy,
		}
		if err := st.Returns().Insert(ctx, ret); err != nil {
			return err
		}

		product, err := lookupProduct(ctx, st, in.ProductID)
		if err != nil {
			return err
		}
		return moveStock(ctx, st, stockMove{
			product:    product,
			branchID:   sale.BranchID,
			delta:      in.Quantity,
			changeType: domain.ChangeReturn,
			ref:        domain.SaleReturnRef(ret.ID),
			createdBy:  in.ProcessedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	returnsCreated.Inc()
	s.Logger.Info("sale return created", "returnId", ret.ID, "saleId", in.SaleID, "quantity", in.Quantity)
	return ret, nil
}

// ValidateReturn is side-effect free; it reports what CreateReturn
// would allow for the given (sale, product) pair.
func (s *ReturnService) ValidateReturn(ctx context.Context, saleID, productID int64) (*ReturnEligibility, error) {
	sale, err := s.Store.Sales().Get(ctx, saleID)
	if err != nil {
		return nil, saleRefErr(saleID, err)
	}
	line := findSaleItem(sale, productID)
	if line == nil {
		return nil, &domain.ReferenceNotFoundError{Kind: "sale item for product", ID: productID}
	}
	already, err := s.Store.Returns().ReturnedQuantity(ctx, saleID, productID)
	if err != nil {
		return nil, err
	}
	available := returnableQuantity(line.Quantity, already)
	return &ReturnEligibility{
		Sold:              line.Quantity,
		AlreadyReturned:   already,
		AvailableToReturn: available,
		UnitPrice:         line.UnitPrice,
		MaxRefund:         lineSubtotal(available, line.UnitPrice),
	}, nil
}

// Approve moves a pending return to approved. Stock was already
// restored at creation, so this is a pure status transition.
func (s *ReturnService) Approve(ctx context.Context, returnID int64, processedBy *int64) (*domain.SaleReturn, error) {
	return s.transition(ctx, returnID, domain.ReturnApproved, processedBy)
}

// Reject moves a pending return to rejected and takes the restored
// quantity back out of the ledger. If that stock was drawn down in the
// meantime the rejection fails with insufficient stock.
func (s *ReturnService) Reject(ctx context.Context, returnID int64, processedBy *int64) (*domain.SaleReturn, error) {
	return s.transition(ctx, returnID, domain.ReturnRejected, processedBy)
}

func (s *ReturnService) transition(ctx context.Context, returnID int64, to domain.ReturnStatus, processedBy *int64) (*domain.SaleReturn, error) {
	var ret *domain.SaleReturn
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		ret, err = st.Returns().Get(ctx, returnID)
		if err != nil {
			return returnRefErr(returnID, err)
		}
		if ret.Status != domain.ReturnPending {
			return &domain.ValidationError{Field: "status", Reason: "return is not pending"}
		}
		if to == domain.ReturnRejected {
			if err := s.reverseStock(ctx, st, ret, processedBy); err != nil {
				return err
			}
		}
		if err := st.Returns().SetStatus(ctx, returnID, to, processedBy); err != nil {
			return err
		}
		ret.Status = to
		ret.ProcessedBy = processedBy
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Delete removes a return record. Unless the return was rejected (its
// stock effect already reversed), the restored quantity is taken back
// out first; that decrement can fail with insufficient stock and the
// failure is surfaced, not ignored.
func (s *ReturnService) Delete(ctx context.Context, returnID int64, deletedBy *int64) error {
	return s.Scope.Execute(ctx, func(st ports.Store) error {
		ret, err := st.Returns().Get(ctx, returnID)
		if err != nil {
			return returnRefErr(returnID, err)
		}
		if ret.Status != domain.ReturnRejected {
			if err := s.reverseStock(ctx, st, ret, deletedBy); err != nil {
				return err
			}
		}
		return st.Returns().Delete(ctx, returnID)
	})
}

func (s *ReturnService) reverseStock(ctx context.Context, st ports.Store, ret *domain.SaleReturn, by *int64) error {
	sale, err := st.Sales().Get(ctx, ret.SaleID)
	if err != nil {
		return saleRefErr(ret.SaleID, err)
	}
	product, err := lookupProduct(ctx, st, ret.ProductID)
	if err != nil {
		return err
	}
	return moveStock(ctx, st, stockMove{
		product:    product,
		branchID:   sale.BranchID,
		delta:      -ret.Quantity,
		changeType: domain.ChangeAdjustment,
		ref:        domain.SaleReturnRef(ret.ID),
		createdBy:  by,
	})
}

func (s *ReturnService) ListBySale(ctx context.Context, saleID int64) ([]domain.SaleReturn, error) {
	return s.Store.Returns().ListBySale(ctx, saleID)
}

func findSaleItem(sale *domain.Sale, productID int64) *domain.SaleItem {
	for i := range sale.Items {
		if sale.Items[i].ProductID == productID {
			return &sale.Items[i]
		}
	}
	return nil
}

func returnRefErr(returnID int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceNotFoundError{Kind: "sale return", ID: returnID}
	}
	return err
}
