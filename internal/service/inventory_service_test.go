package service

import (
	"context"
	"testing"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStockWritesAuditLog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entry, err := env.inventory.AdjustStock(ctx, productSoap, testBranch, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, entry.Quantity)

	entry, err = env.inventory.AdjustStock(ctx, productSoap, testBranch, -3, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity)

	logs, err := env.inventory.Logs(ctx, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Newest first.
	assert.Equal(t, -3, logs[0].QuantityChange)
	assert.Equal(t, 8, logs[0].PreviousStock)
	assert.Equal(t, 5, logs[0].NewStock)
	assert.Equal(t, domain.ManualRef(), logs[0].Ref)
	assert.Equal(t, domain.ChangeAdjustment, logs[0].ChangeType)
}

func TestAdjustStockRejectsZeroAndBelowZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inventory.AdjustStock(ctx, productSoap, testBranch, 0, nil)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = env.inventory.AdjustStock(ctx, productSoap, testBranch, -1, nil)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
}

func TestAdjustStockUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var ref *domain.ReferenceNotFoundError
	_, err := env.inventory.AdjustStock(ctx, 999, testBranch, 1, nil)
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "product", ref.Kind)

	_, err = env.inventory.AdjustStock(ctx, productSoap, 999, 1, nil)
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "branch", ref.Kind)
}
