package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CampaignInput carries the editable campaign fields.
type CampaignInput struct {
	Name             string           `json:"name"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	DistributionMode DistributionMode `json:"distribution_mode"`
	Currency         string           `json:"currency"`
}

// CampaignFullData is the combined dataset the reporting surface reads in
// one call: campaign metadata plus all child collections.
type CampaignFullData struct {
	Campaign       Campaign            `json:"campaign"`
	Quantities     Quantities          `json:"quantities"`
	MonthWeights   MonthWeights        `json:"month_weights"`
	ProductWeights ProductMonthWeights `json:"product_weights"`
	SizeBreakdown  SizeBreakdown       `json:"size_breakdown"`
}

// CampaignService manages campaigns and their child collections. Child
// collections follow replace-set semantics: given a parent id and a
// complete new child set, storage is made to match it exactly — one
// transaction, delete-by-parent then reinsert, no row-level diffing.
type CampaignService interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	CreateCampaign(ctx context.Context, in CampaignInput) (*Campaign, error)
	UpdateCampaign(ctx context.Context, id string, in CampaignInput) (*Campaign, error)

	// LatestOrCreateDefault returns the newest campaign, lazily creating a
	// default one on first run so the dashboard always has something to show.
	LatestOrCreateDefault(ctx context.Context) (*Campaign, error)

	Quantities(ctx context.Context, campaignID string) (Quantities, error)
	ReplaceQuantities(ctx context.Context, campaignID string, quantities Quantities) error

	// MonthWeights reads the legacy campaign-level weight rows (product_id
	// IS NULL); ProductMonthWeights reads the per-product rows.
	MonthWeights(ctx context.Context, campaignID string) (MonthWeights, error)
	ReplaceMonthWeights(ctx context.Context, campaignID string, weights MonthWeights) error
	ProductMonthWeights(ctx context.Context, campaignID string) (ProductMonthWeights, error)
	ReplaceProductMonthWeights(ctx context.Context, campaignID string, weights ProductMonthWeights) error

	SizeBreakdown(ctx context.Context, campaignID string) (SizeBreakdown, error)
	ReplaceSizeBreakdown(ctx context.Context, campaignID string, breakdown SizeBreakdown) error

	FullData(ctx context.Context, campaignID string) (*CampaignFullData, error)
}

type campaignService struct {
	pool *pgxpool.Pool
}

// NewCampaignService constructs a CampaignService backed by PostgreSQL.
func NewCampaignService(pool *pgxpool.Pool) CampaignService {
	return &campaignService{pool: pool}
}

const campaignColumns = `id, name, start_date, end_date, distribution_mode, currency, created_at`

func scanCampaign(row pgx.Row) (*Campaign, error) {
	c := &Campaign{}
	err := row.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.DistributionMode, &c.Currency, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *campaignService) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (s *campaignService) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	c, err := scanCampaign(s.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get campaign %s: %w", id, err)
	}
	return c, nil
}

func (s *campaignService) CreateCampaign(ctx context.Context, in CampaignInput) (*Campaign, error) {
	if in.DistributionMode == "" {
		in.DistributionMode = DistUniform
	}
	if in.Currency == "" {
		in.Currency = "BDT"
	}

	c, err := scanCampaign(s.pool.QueryRow(ctx, `
		INSERT INTO campaigns (id, name, start_date, end_date, distribution_mode, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+campaignColumns,
		uuid.NewString(), in.Name, in.StartDate, in.EndDate, in.DistributionMode, in.Currency,
	))
	if err != nil {
		return nil, fmt.Errorf("create campaign %q: %w", in.Name, err)
	}
	return c, nil
}

func (s *campaignService) UpdateCampaign(ctx context.Context, id string, in CampaignInput) (*Campaign, error) {
	c, err := scanCampaign(s.pool.QueryRow(ctx, `
		UPDATE campaigns
		SET name = $2, start_date = $3, end_date = $4, distribution_mode = $5, currency = $6
		WHERE id = $1
		RETURNING `+campaignColumns,
		id, in.Name, in.StartDate, in.EndDate, in.DistributionMode, in.Currency,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update campaign %s: %w", id, err)
	}
	return c, nil
}

func (s *campaignService) LatestOrCreateDefault(ctx context.Context) (*Campaign, error) {
	c, err := scanCampaign(s.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC LIMIT 1`))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("latest campaign: %w", err)
	}

	// First run: a three-month window starting this month.
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.CreateCampaign(ctx, CampaignInput{
		Name:             "Default Campaign",
		StartDate:        start,
		EndDate:          start.AddDate(0, 2, 0),
		DistributionMode: DistUniform,
		Currency:         "BDT",
	})
}

// ── Quantities ────────────────────────────────────────────────────────────────

func (s *campaignService) Quantities(ctx context.Context, campaignID string) (Quantities, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, total_qty FROM campaign_quantities WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s quantities: %w", campaignID, err)
	}
	defer rows.Close()

	quantities := Quantities{}
	for rows.Next() {
		var pid string
		var qty decimal.Decimal
		if err := rows.Scan(&pid, &qty); err != nil {
			return nil, fmt.Errorf("scan quantity: %w", err)
		}
		quantities[pid] = qty
	}
	return quantities, rows.Err()
}

func (s *campaignService) ReplaceQuantities(ctx context.Context, campaignID string, quantities Quantities) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM campaign_quantities WHERE campaign_id = $1`, campaignID); err != nil {
		return fmt.Errorf("clear quantities for campaign %s: %w", campaignID, err)
	}

	for _, pid := range sortedKeys(quantities) {
		qty := quantities[pid]
		if !qty.IsPositive() {
			continue // zero rows are represented by absence
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO campaign_quantities (id, campaign_id, product_id, total_qty)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), campaignID, pid, qty); err != nil {
			return fmt.Errorf("insert quantity for product %s: %w", pid, err)
		}
	}
	return tx.Commit(ctx)
}

// ── Month weights ─────────────────────────────────────────────────────────────

func (s *campaignService) MonthWeights(ctx context.Context, campaignID string) (MonthWeights, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT month_label, weight
		FROM campaign_month_weights
		WHERE campaign_id = $1 AND product_id IS NULL`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s month weights: %w", campaignID, err)
	}
	defer rows.Close()

	weights := MonthWeights{}
	for rows.Next() {
		var label string
		var w float64
		if err := rows.Scan(&label, &w); err != nil {
			return nil, fmt.Errorf("scan month weight: %w", err)
		}
		weights[label] = w
	}
	return weights, rows.Err()
}

func (s *campaignService) ReplaceMonthWeights(ctx context.Context, campaignID string, weights MonthWeights) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Only the legacy campaign-level rows; per-product rows are untouched.
	if _, err := tx.Exec(ctx, `
		DELETE FROM campaign_month_weights
		WHERE campaign_id = $1 AND product_id IS NULL`, campaignID); err != nil {
		return fmt.Errorf("clear month weights for campaign %s: %w", campaignID, err)
	}

	for _, label := range sortedKeys(weights) {
		w := weights[label]
		if w < 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO campaign_month_weights (id, campaign_id, month_label, weight)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), campaignID, label, w); err != nil {
			return fmt.Errorf("insert month weight %s: %w", label, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *campaignService) ProductMonthWeights(ctx context.Context, campaignID string) (ProductMonthWeights, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, month_label, weight
		FROM campaign_month_weights
		WHERE campaign_id = $1 AND product_id IS NOT NULL`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s product month weights: %w", campaignID, err)
	}
	defer rows.Close()

	out := ProductMonthWeights{}
	for rows.Next() {
		var pid, label string
		var w float64
		if err := rows.Scan(&pid, &label, &w); err != nil {
			return nil, fmt.Errorf("scan product month weight: %w", err)
		}
		if out[pid] == nil {
			out[pid] = MonthWeights{}
		}
		out[pid][label] = w
	}
	return out, rows.Err()
}

func (s *campaignService) ReplaceProductMonthWeights(ctx context.Context, campaignID string, weights ProductMonthWeights) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, pid := range sortedKeys(weights) {
		if _, err := tx.Exec(ctx, `
			DELETE FROM campaign_month_weights
			WHERE campaign_id = $1 AND product_id = $2`, campaignID, pid); err != nil {
			return fmt.Errorf("clear weights for product %s: %w", pid, err)
		}
		for _, label := range sortedKeys(weights[pid]) {
			w := weights[pid][label]
			if w < 0 {
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO campaign_month_weights (id, campaign_id, product_id, month_label, weight)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), campaignID, pid, label, w); err != nil {
				return fmt.Errorf("insert weight %s for product %s: %w", label, pid, err)
			}
		}
	}
	return tx.Commit(ctx)
}

// ── Size breakdown ────────────────────────────────────────────────────────────

func (s *campaignService) SizeBreakdown(ctx context.Context, campaignID string) (SizeBreakdown, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, size, qty
		FROM campaign_size_breakdown
		WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s size breakdown: %w", campaignID, err)
	}
	defer rows.Close()

	out := SizeBreakdown{}
	for rows.Next() {
		var pid, size string
		var qty decimal.Decimal
		if err := rows.Scan(&pid, &size, &qty); err != nil {
			return nil, fmt.Errorf("scan size row: %w", err)
		}
		if out[pid] == nil {
			out[pid] = map[string]decimal.Decimal{}
		}
		out[pid][size] = qty
	}
	return out, rows.Err()
}

func (s *campaignService) ReplaceSizeBreakdown(ctx context.Context, campaignID string, breakdown SizeBreakdown) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM campaign_size_breakdown WHERE campaign_id = $1`, campaignID); err != nil {
		return fmt.Errorf("clear size breakdown for campaign %s: %w", campaignID, err)
	}

	for _, pid := range sortedKeys(breakdown) {
		for _, size := range sortedKeys(breakdown[pid]) {
			qty := breakdown[pid][size]
			if !qty.IsPositive() {
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO campaign_size_breakdown (id, campaign_id, product_id, size, qty)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), campaignID, pid, size, qty); err != nil {
				return fmt.Errorf("insert size %s for product %s: %w", size, pid, err)
			}
		}
	}
	return tx.Commit(ctx)
}

// ── Reporting ─────────────────────────────────────────────────────────────────

func (s *campaignService) FullData(ctx context.Context, campaignID string) (*CampaignFullData, error) {
	campaign, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	quantities, err := s.Quantities(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	monthWeights, err := s.MonthWeights(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	productWeights, err := s.ProductMonthWeights(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	sizes, err := s.SizeBreakdown(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return &CampaignFullData{
		Campaign:       *campaign,
		Quantities:     quantities,
		MonthWeights:   monthWeights,
		ProductWeights: productWeights,
		SizeBreakdown:  sizes,
	}, nil
}
