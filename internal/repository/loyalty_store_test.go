package repository

import (
	"errors"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendTransactionErrorMapsDuplicateEarned(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "loyalty_sale_earned_unique"}

	err := appendTransactionError(pgErr)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, conflict.Err, error(pgErr))
}

func TestAppendTransactionErrorPassesOtherErrorsThrough(t *testing.T) {
	assert.NoError(t, appendTransactionError(nil))

	boom := errors.New("connection reset")
	assert.Same(t, boom, appendTransactionError(boom))

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, error(fk), appendTransactionError(fk))
}
