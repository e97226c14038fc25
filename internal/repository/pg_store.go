package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both pgxpool.Pool and pgx.Tx, so every store
// works unchanged inside or outside a transaction.
type querier interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PgStore implements ports.Store over a pgx querier.
type PgStore struct {
	q      querier
	locked bool // true inside a transaction; enables FOR UPDATE reads
}

// NewPgStore returns a store reading committed state from the pool.
func NewPgStore(pg *db.Postgres) PgStore {
	return PgStore{q: pg.Pool}
}

func (s PgStore) Stock() ports.StockLedger              { return stockLedger{s.q} }
func (s PgStore) Purchases() ports.PurchaseStore        { return purchaseStore{s.q} }
func (s PgStore) Sales() ports.SaleStore                { return saleStore{s.q} }
func (s PgStore) Returns() ports.ReturnStore            { return returnStore{s.q} }
func (s PgStore) Loyalty() ports.LoyaltyStore           { return loyaltyStore{s.q, s.locked} }
func (s PgStore) Logs() ports.InventoryLogStore         { return inventoryLogStore{s.q} }
func (s PgStore) Notifications() ports.NotificationStore { return notificationStore{s.q} }
func (s PgStore) Lookups() ports.Lookups                { return lookups{s.q} }

// PgTxScope runs composite operations inside a single database
// transaction with a bounded statement timeout. Serialization and
// deadlock aborts surface as *domain.ConflictError, timeouts as
// *domain.TransactionTimeoutError; the caller decides whether to retry.
type PgTxScope struct {
	DB               *db.Postgres
	StatementTimeout time.Duration
}

func (t PgTxScope) Execute(ctx context.Context, fn func(ports.Store) error) error {
	tx, err := t.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if t.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", t.StatementTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	if err := fn(PgStore{q: tx, locked: true}); err != nil {
		return classifyTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classifyTxError(err)
	}
	return nil
}

func classifyTxError(err error) error {
	switch {
	case db.IsSerializationFailure(err):
		return &domain.ConflictError{Err: err}
	case db.IsStatementTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return &domain.TransactionTimeoutError{Err: err}
	}
	return err
}
