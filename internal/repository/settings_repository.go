package repository

import (
	"context"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingsRepository reads and writes the single business settings row.
type SettingsRepository struct {
	DB *db.Postgres
}

func (r SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT business_name, business_address, business_phone, currency_code, loyalty_earn_rate, receipt_footer, updated_at
		FROM settings
		WHERE id = 1
	`).Scan(&s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.CurrencyCode, &s.LoyaltyEarnRate, &s.ReceiptFooter, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EarnRate reads just the loyalty earn rate; the loyalty service calls
// this on every sale-point award so settings edits apply immediately.
func (r SettingsRepository) EarnRate(ctx context.Context) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.DB.Pool.QueryRow(ctx, `SELECT loyalty_earn_rate FROM settings WHERE id = 1`).Scan(&rate)
	return rate, err
}

func (r SettingsRepository) Save(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	var out domain.Settings
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE settings
		SET business_name = $1, business_address = $2, business_phone = $3,
		    currency_code = $4, loyalty_earn_rate = $5, receipt_footer = $6, updated_at = now()
		WHERE id = 1
		RETURNING business_name, business_address, business_phone, currency_code, loyalty_earn_rate, receipt_footer, updated_at
	`, s.BusinessName, s.BusinessAddress, s.BusinessPhone, s.CurrencyCode, s.LoyaltyEarnRate, s.ReceiptFooter).
		Scan(&out.BusinessName, &out.BusinessAddress, &out.BusinessPhone, &out.CurrencyCode, &out.LoyaltyEarnRate, &out.ReceiptFooter, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
