package repository

import (
	"context"
	"errors"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type loyaltyStore struct {
	q      querier
	locked bool
}

// Account loads (or creates) the customer's account. Inside a
// transaction the row is locked so balance mutations serialize.
func (s loyaltyStore) Account(ctx context.Context, customerID int64) (*domain.LoyaltyAccount, error) {
	query := `
		SELECT id, customer_id, points_balance, total_earned, total_redeemed, created_at, updated_at
		FROM loyalty_accounts
		WHERE customer_id = $1`
	if s.locked {
		query += `
		FOR UPDATE`
	}
	var a domain.LoyaltyAccount
	err := s.q.QueryRow(ctx, query, customerID).
		Scan(&a.ID, &a.CustomerID, &a.PointsBalance, &a.TotalEarned, &a.TotalRedeemed, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = s.q.QueryRow(ctx, `
			INSERT INTO loyalty_accounts (customer_id)
			VALUES ($1)
			ON CONFLICT (customer_id) DO UPDATE SET updated_at = loyalty_accounts.updated_at
			RETURNING id, customer_id, points_balance, total_earned, total_redeemed, created_at, updated_at
		`, customerID).Scan(&a.ID, &a.CustomerID, &a.PointsBalance, &a.TotalEarned, &a.TotalRedeemed, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return nil, &domain.ReferenceNotFoundError{Kind: "customer", ID: customerID}
			}
			return nil, err
		}
		return &a, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s loyaltyStore) SaveAccount(ctx context.Context, a *domain.LoyaltyAccount) error {
	err := s.q.QueryRow(ctx, `
		UPDATE loyalty_accounts
		SET points_balance = $1, total_earned = $2, total_redeemed = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, a.PointsBalance, a.TotalEarned, a.TotalRedeemed, a.ID).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (s loyaltyStore) AppendTransaction(ctx context.Context, t *domain.LoyaltyTransaction) error {
	var refID *int64
	if t.Ref.Kind != domain.RefManual {
		refID = &t.Ref.ID
	}
	err := s.q.QueryRow(ctx, `
		INSERT INTO loyalty_transactions (customer_id, type, points, balance_after, reason, reference_type, reference_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, t.CustomerID, string(t.Type), t.Points, t.BalanceAfter, t.Reason, string(t.Ref.Kind), refID).
		Scan(&t.ID, &t.CreatedAt)
	return appendTransactionError(err)
}

// appendTransactionError translates the partial unique index on earned
// sale entries into a conflict, so a concurrent double award reads as a
// retryable duplicate instead of a bare driver error.
func appendTransactionError(err error) error {
	if db.IsUniqueViolation(err) {
		return &domain.ConflictError{Err: err}
	}
	return err
}

func (s loyaltyStore) Transactions(ctx context.Context, customerID int64, limit int) ([]domain.LoyaltyTransaction, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, customer_id, type, points, balance_after, reason, reference_type, reference_id, created_at
		FROM loyalty_transactions
		WHERE customer_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LoyaltyTransaction
	for rows.Next() {
		var t domain.LoyaltyTransaction
		var typ, refKind string
		var refID pgtype.Int8
		if err := rows.Scan(&t.ID, &t.CustomerID, &typ, &t.Points, &t.BalanceAfter, &t.Reason, &refKind, &refID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = domain.LoyaltyTxType(typ)
		t.Ref = domain.LedgerRef{Kind: domain.RefKind(refKind)}
		if refID.Valid {
			t.Ref.ID = refID.Int64
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (s loyaltyStore) HasEarnedForSale(ctx context.Context, saleID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM loyalty_transactions
			WHERE reference_type = 'sale' AND reference_id = $1 AND type = 'earned'
		)
	`, saleID).Scan(&exists)
	return exists, err
}
