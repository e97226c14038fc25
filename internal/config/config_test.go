package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.True(t, cfg.LoyaltyEarnRate.Equal(dec("0.01")))
	assert.True(t, cfg.AutoApproveReturns)
	assert.Equal(t, 10*time.Second, cfg.StatementTimeout)
}

func TestLoadRequiredVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOYALTY_EARN_RATE", "0.05")
	t.Setenv("AUTO_APPROVE_RETURNS", "false")
	t.Setenv("STATEMENT_TIMEOUT", "30") // bare seconds
	t.Setenv("HTTP_READ_TIMEOUT", "2m")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.LoyaltyEarnRate.Equal(dec("0.05")))
	assert.False(t, cfg.AutoApproveReturns)
	assert.Equal(t, 30*time.Second, cfg.StatementTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ReadTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoadNegativeEarnRateRejected(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOYALTY_EARN_RATE", "-0.1")
	_, err := Load()
	require.Error(t, err)
}
