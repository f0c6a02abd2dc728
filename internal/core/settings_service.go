package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// FxRate is a canonical-currency exchange rate used for display conversion
// only. Stored amounts stay in the canonical currency.
type FxRate struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SettingsService manages the single-row application settings and the
// exchange rate table.
type SettingsService interface {
	DisplayCurrency(ctx context.Context) (string, error)
	SetDisplayCurrency(ctx context.Context, currency string) error

	FxRates(ctx context.Context) ([]FxRate, error)
	FxRate(ctx context.Context, currency string) (decimal.Decimal, error)
	UpsertFxRate(ctx context.Context, currency string, rate decimal.Decimal) error

	// Convert divides a canonical amount by the currency's rate. When the
	// rate is zero or missing the amount comes back unchanged.
	Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error)
}

type settingsService struct {
	pool *pgxpool.Pool
}

// NewSettingsService constructs a SettingsService backed by PostgreSQL.
func NewSettingsService(pool *pgxpool.Pool) SettingsService {
	return &settingsService{pool: pool}
}

const defaultDisplayCurrency = "BDT"

func (s *settingsService) DisplayCurrency(ctx context.Context) (string, error) {
	var currency string
	err := s.pool.QueryRow(ctx, `
		SELECT display_currency FROM app_settings WHERE id = 1`).Scan(&currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return defaultDisplayCurrency, nil
		}
		return "", fmt.Errorf("display currency: %w", err)
	}
	return currency, nil
}

func (s *settingsService) SetDisplayCurrency(ctx context.Context, currency string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO app_settings (id, display_currency)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET display_currency = EXCLUDED.display_currency, updated_at = NOW()`,
		currency)
	if err != nil {
		return fmt.Errorf("set display currency %s: %w", currency, err)
	}
	return nil
}

func (s *settingsService) FxRates(ctx context.Context) ([]FxRate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT currency, rate, updated_at FROM fx_rates ORDER BY currency`)
	if err != nil {
		return nil, fmt.Errorf("list fx rates: %w", err)
	}
	defer rows.Close()

	var rates []FxRate
	for rows.Next() {
		var r FxRate
		if err := rows.Scan(&r.Currency, &r.Rate, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fx rate: %w", err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (s *settingsService) FxRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT rate FROM fx_rates WHERE currency = $1`, currency).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("fx rate %s: %w", currency, ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("fx rate %s: %w", currency, err)
	}
	return rate, nil
}

func (s *settingsService) UpsertFxRate(ctx context.Context, currency string, rate decimal.Decimal) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fx_rates (currency, rate)
		VALUES ($1, $2)
		ON CONFLICT (currency) DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()`,
		currency, rate)
	if err != nil {
		return fmt.Errorf("upsert fx rate %s: %w", currency, err)
	}
	return nil
}

func (s *settingsService) Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	rate, err := s.FxRate(ctx, currency)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return amount, nil
		}
		return decimal.Zero, err
	}
	if rate.IsZero() {
		return amount, nil
	}
	return amount.Div(rate), nil
}

// ConvertAmount is the pure form of display conversion: amount divided by
// the rate, with a zero rate treated as 1.
func ConvertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return amount
	}
	return amount.Div(rate)
}
