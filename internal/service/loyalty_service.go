package service

import (
	"context"
	"log/slog"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
	"github.com/shopspring/decimal"
)

// EarnRateSource resolves the current points-per-amount earn rate.
// The business settings row implements it so admin edits take effect
// without a restart.
type EarnRateSource interface {
	EarnRate(ctx context.Context) (decimal.Decimal, error)
}

// LoyaltyService maintains per-customer point balances as an
// append-only ledger. Every mutation updates the account row and
// appends its transaction inside one atomic unit, preserving
// pointsBalance == totalEarned - totalRedeemed.
type LoyaltyService struct {
	Scope ports.TransactionScope
	Store ports.Store
	// Rates overrides EarnRate when set; EarnRate is the configured
	// default and the fallback when the source fails.
	Rates    EarnRateSource
	EarnRate decimal.Decimal
	Logger   *slog.Logger
}

func (s *LoyaltyService) Earn(ctx context.Context, customerID, points int64, reason string, ref domain.LedgerRef) (*domain.LoyaltyAccount, error) {
	if points <= 0 {
		return nil, &domain.ValidationError{Field: "points", Reason: "must be greater than zero"}
	}
	return s.mutate(ctx, customerID, func(ctx context.Context, st ports.Store, a *domain.LoyaltyAccount) error {
		return s.apply(ctx, st, a, domain.PointsEarned, points, reason, ref)
	})
}

func (s *LoyaltyService) Redeem(ctx context.Context, customerID, points int64, reason string, ref domain.LedgerRef) (*domain.LoyaltyAccount, error) {
	if points <= 0 {
		return nil, &domain.ValidationError{Field: "points", Reason: "must be greater than zero"}
	}
	return s.mutate(ctx, customerID, func(ctx context.Context, st ports.Store, a *domain.LoyaltyAccount) error {
		if a.PointsBalance < points {
			return &domain.InsufficientPointsError{
				CustomerID: customerID,
				Balance:    a.PointsBalance,
				Requested:  points,
			}
		}
		return s.apply(ctx, st, a, domain.PointsRedeemed, points, reason, ref)
	})
}

// Adjust is the admin correction: positive deltas route through
// totalEarned, negative through totalRedeemed. A negative adjustment
// larger than the balance is rejected so the balance stays
// non-negative.
func (s *LoyaltyService) Adjust(ctx context.Context, customerID, signedPoints int64, reason string) (*domain.LoyaltyAccount, error) {
	if signedPoints == 0 {
		return nil, &domain.ValidationError{Field: "points", Reason: "must not be zero"}
	}
	return s.mutate(ctx, customerID, func(ctx context.Context, st ports.Store, a *domain.LoyaltyAccount) error {
		if signedPoints > 0 {
			return s.apply(ctx, st, a, domain.PointsAdjustmentAdd, signedPoints, reason, domain.ManualRef())
		}
		points := -signedPoints
		if a.PointsBalance < points {
			return &domain.InsufficientPointsError{
				CustomerID: customerID,
				Balance:    a.PointsBalance,
				Requested:  points,
			}
		}
		return s.apply(ctx, st, a, domain.PointsAdjustmentRemove, points, reason, domain.ManualRef())
	})
}

// Reset moves the entire balance into totalRedeemed and zeroes it.
func (s *LoyaltyService) Reset(ctx context.Context, customerID int64, reason string) (*domain.LoyaltyAccount, error) {
	return s.mutate(ctx, customerID, func(ctx context.Context, st ports.Store, a *domain.LoyaltyAccount) error {
		return s.apply(ctx, st, a, domain.PointsReset, a.PointsBalance, reason, domain.ManualRef())
	})
}

// ProcessSalePoints credits floor(grandTotal * earnRate) points for a
// completed sale. A sale that already has an earned entry is skipped,
// so calling this twice never double-credits.
func (s *LoyaltyService) ProcessSalePoints(ctx context.Context, saleID int64) (*domain.LoyaltyAccount, error) {
	var account *domain.LoyaltyAccount
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		sale, err := st.Sales().Get(ctx, saleID)
		if err != nil {
			return saleRefErr(saleID, err)
		}
		account, err = s.awardSalePoints(ctx, st, sale)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// awardSalePoints runs inside the caller's transaction so sale creation
// can award points atomically with the sale itself.
func (s *LoyaltyService) awardSalePoints(ctx context.Context, st ports.Store, sale *domain.Sale) (*domain.LoyaltyAccount, error) {
	if sale.CustomerID == nil {
		return nil, &domain.ValidationError{Field: "customerId", Reason: "sale has no customer"}
	}
	account, err := st.Loyalty().Account(ctx, *sale.CustomerID)
	if err != nil {
		return nil, err
	}

	earned, err := st.Loyalty().HasEarnedForSale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if earned {
		return account, nil
	}
	points := salePoints(sale.GrandTotal, s.earnRate(ctx))
	if points == 0 {
		return account, nil
	}
	if err := s.apply(ctx, st, account, domain.PointsEarned, points, "sale "+sale.InvoiceNo, domain.SaleRef(sale.ID)); err != nil {
		return nil, err
	}
	return account, nil
}

// earnRate prefers the stored settings rate over the configured
// default. A missing source, a read failure or a negative stored value
// all fall back to the default.
func (s *LoyaltyService) earnRate(ctx context.Context) decimal.Decimal {
	if s.Rates == nil {
		return s.EarnRate
	}
	rate, err := s.Rates.EarnRate(ctx)
	if err != nil {
		s.Logger.Warn("earn rate lookup failed, using configured default", "err", err)
		return s.EarnRate
	}
	if rate.IsNegative() {
		return s.EarnRate
	}
	return rate
}

func (s *LoyaltyService) Account(ctx context.Context, customerID int64) (*domain.LoyaltyAccount, error) {
	return s.Store.Loyalty().Account(ctx, customerID)
}

func (s *LoyaltyService) Transactions(ctx context.Context, customerID int64, limit int) ([]domain.LoyaltyTransaction, error) {
	return s.Store.Loyalty().Transactions(ctx, customerID, limit)
}

func (s *LoyaltyService) mutate(ctx context.Context, customerID int64, fn func(context.Context, ports.Store, *domain.LoyaltyAccount) error) (*domain.LoyaltyAccount, error) {
	var account *domain.LoyaltyAccount
	err := s.Scope.Execute(ctx, func(st ports.Store) error {
		var err error
		account, err = st.Loyalty().Account(ctx, customerID)
		if err != nil {
			return err
		}
		return fn(ctx, st, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// apply moves points through the account per transaction type, saves
// the account and appends the ledger entry.
func (s *LoyaltyService) apply(ctx context.Context, st ports.Store, a *domain.LoyaltyAccount, typ domain.LoyaltyTxType, points int64, reason string, ref domain.LedgerRef) error {
	switch typ {
	case domain.PointsEarned, domain.PointsAdjustmentAdd:
		a.PointsBalance += points
		a.TotalEarned += points
	case domain.PointsRedeemed, domain.PointsAdjustmentRemove, domain.PointsExpired:
		a.PointsBalance -= points
		a.TotalRedeemed += points
	case domain.PointsReset:
		a.TotalRedeemed += a.PointsBalance
		a.PointsBalance = 0
	default:
		return &domain.ValidationError{Field: "type", Reason: "unknown loyalty transaction type"}
	}

	if err := st.Loyalty().SaveAccount(ctx, a); err != nil {
		return err
	}
	return st.Loyalty().AppendTransaction(ctx, &domain.LoyaltyTransaction{
		CustomerID:   a.CustomerID,
		Type:         typ,
		Points:       points,
		BalanceAfter: a.PointsBalance,
		Reason:       reason,
		Ref:          ref,
	})
}
