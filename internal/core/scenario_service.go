package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScenarioService manages scenarios, their campaign link, and the three
// override layers. Override sets use replace-set semantics like every
// other child collection.
type ScenarioService interface {
	ListScenarios(ctx context.Context) ([]Scenario, error)
	GetScenario(ctx context.Context, id string) (*Scenario, error)
	CreateScenario(ctx context.Context, name, description string) (*Scenario, error)
	UpdateScenario(ctx context.Context, id, name, description string) (*Scenario, error)

	// DeleteScenario removes the scenario; override layers and links go
	// with it via ON DELETE CASCADE.
	DeleteScenario(ctx context.Context, id string) error

	// DuplicateScenario copies a scenario together with all its override
	// layers and campaign links. The source id must resolve.
	DuplicateScenario(ctx context.Context, id, newName string) (*Scenario, error)

	// LinkToCampaign attaches the scenario to a base campaign, keeping a
	// single active link (old links are replaced).
	LinkToCampaign(ctx context.Context, scenarioID, campaignID string) error

	// BaseCampaignID returns the linked campaign id, or ErrNotFound when
	// the scenario has no link.
	BaseCampaignID(ctx context.Context, scenarioID string) (string, error)

	ProductOverrides(ctx context.Context, scenarioID string) ([]ProductOverride, error)
	ReplaceProductOverrides(ctx context.Context, scenarioID string, overrides []ProductOverride) error

	OpexOverrides(ctx context.Context, scenarioID string) ([]OpexOverride, error)
	ReplaceOpexOverrides(ctx context.Context, scenarioID string, overrides []OpexOverride) error

	FxOverrides(ctx context.Context, scenarioID string) ([]FxOverride, error)
	ReplaceFxOverrides(ctx context.Context, scenarioID string, overrides []FxOverride) error
}

type scenarioService struct {
	pool *pgxpool.Pool
}

// NewScenarioService constructs a ScenarioService backed by PostgreSQL.
func NewScenarioService(pool *pgxpool.Pool) ScenarioService {
	return &scenarioService{pool: pool}
}

const scenarioColumns = `id, name, description, created_at, updated_at`

func scanScenario(row pgx.Row) (*Scenario, error) {
	sc := &Scenario{}
	err := row.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *scenarioService) ListScenarios(ctx context.Context) ([]Scenario, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+scenarioColumns+` FROM scenarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		scenarios = append(scenarios, *sc)
	}
	return scenarios, rows.Err()
}

func (s *scenarioService) GetScenario(ctx context.Context, id string) (*Scenario, error) {
	sc, err := scanScenario(s.pool.QueryRow(ctx, `
		SELECT `+scenarioColumns+` FROM scenarios WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get scenario %s: %w", id, err)
	}
	return sc, nil
}

func (s *scenarioService) CreateScenario(ctx context.Context, name, description string) (*Scenario, error) {
	sc, err := scanScenario(s.pool.QueryRow(ctx, `
		INSERT INTO scenarios (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING `+scenarioColumns,
		uuid.NewString(), name, description,
	))
	if err != nil {
		return nil, fmt.Errorf("create scenario %q: %w", name, err)
	}
	return sc, nil
}

func (s *scenarioService) UpdateScenario(ctx context.Context, id, name, description string) (*Scenario, error) {
	sc, err := scanScenario(s.pool.QueryRow(ctx, `
		UPDATE scenarios
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+scenarioColumns,
		id, name, description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update scenario %s: %w", id, err)
	}
	return sc, nil
}

func (s *scenarioService) DeleteScenario(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scenario %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *scenarioService) DuplicateScenario(ctx context.Context, id, newName string) (*Scenario, error) {
	source, err := s.GetScenario(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	dup, err := scanScenario(tx.QueryRow(ctx, `
		INSERT INTO scenarios (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING `+scenarioColumns,
		uuid.NewString(), newName, source.Description,
	))
	if err != nil {
		return nil, fmt.Errorf("duplicate scenario %s: %w", id, err)
	}

	copies := []struct {
		name string
		sql  string
	}{
		{"product overrides", `
			INSERT INTO scenario_products (id, scenario_id, product_id, price_override,
				discount_override, return_rate_override, cost_override, qty_override)
			SELECT gen_random_uuid(), $2, product_id, price_override,
				discount_override, return_rate_override, cost_override, qty_override
			FROM scenario_products WHERE scenario_id = $1`},
		{"opex overrides", `
			INSERT INTO scenario_opex (id, scenario_id, opex_item_id, cost_override)
			SELECT gen_random_uuid(), $2, opex_item_id, cost_override
			FROM scenario_opex WHERE scenario_id = $1`},
		{"fx overrides", `
			INSERT INTO scenario_fx (id, scenario_id, currency, rate)
			SELECT gen_random_uuid(), $2, currency, rate
			FROM scenario_fx WHERE scenario_id = $1`},
		{"campaign links", `
			INSERT INTO scenario_campaign_links (id, scenario_id, campaign_id)
			SELECT gen_random_uuid(), $2, campaign_id
			FROM scenario_campaign_links WHERE scenario_id = $1`},
	}
	for _, c := range copies {
		if _, err := tx.Exec(ctx, c.sql, id, dup.ID); err != nil {
			return nil, fmt.Errorf("copy %s from scenario %s: %w", c.name, id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit duplicate: %w", err)
	}
	return dup, nil
}

func (s *scenarioService) LinkToCampaign(ctx context.Context, scenarioID, campaignID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM scenario_campaign_links WHERE scenario_id = $1`, scenarioID); err != nil {
		return fmt.Errorf("clear links for scenario %s: %w", scenarioID, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO scenario_campaign_links (id, scenario_id, campaign_id)
		VALUES ($1, $2, $3)`,
		uuid.NewString(), scenarioID, campaignID); err != nil {
		return fmt.Errorf("link scenario %s to campaign %s: %w", scenarioID, campaignID, err)
	}
	return tx.Commit(ctx)
}

func (s *scenarioService) BaseCampaignID(ctx context.Context, scenarioID string) (string, error) {
	var campaignID string
	err := s.pool.QueryRow(ctx, `
		SELECT campaign_id FROM scenario_campaign_links WHERE scenario_id = $1 LIMIT 1`,
		scenarioID).Scan(&campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("scenario %s has no linked campaign: %w", scenarioID, ErrNotFound)
		}
		return "", fmt.Errorf("scenario %s campaign link: %w", scenarioID, err)
	}
	return campaignID, nil
}

// ── Override layers ───────────────────────────────────────────────────────────

func (s *scenarioService) ProductOverrides(ctx context.Context, scenarioID string) ([]ProductOverride, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, price_override, discount_override, return_rate_override, cost_override, qty_override
		FROM scenario_products
		WHERE scenario_id = $1`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("scenario %s product overrides: %w", scenarioID, err)
	}
	defer rows.Close()

	var overrides []ProductOverride
	for rows.Next() {
		var o ProductOverride
		if err := rows.Scan(&o.ProductID, &o.PriceOverride, &o.DiscountOverride,
			&o.ReturnRateOverride, &o.CostOverride, &o.QtyOverride); err != nil {
			return nil, fmt.Errorf("scan product override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (s *scenarioService) ReplaceProductOverrides(ctx context.Context, scenarioID string, overrides []ProductOverride) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scenario_products WHERE scenario_id = $1`, scenarioID); err != nil {
		return fmt.Errorf("clear product overrides for scenario %s: %w", scenarioID, err)
	}
	for _, o := range overrides {
		if _, err := tx.Exec(ctx, `
			INSERT INTO scenario_products (id, scenario_id, product_id, price_override,
				discount_override, return_rate_override, cost_override, qty_override)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), scenarioID, o.ProductID, o.PriceOverride,
			o.DiscountOverride, o.ReturnRateOverride, o.CostOverride, o.QtyOverride); err != nil {
			return fmt.Errorf("insert product override %s: %w", o.ProductID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *scenarioService) OpexOverrides(ctx context.Context, scenarioID string) ([]OpexOverride, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT opex_item_id, cost_override
		FROM scenario_opex
		WHERE scenario_id = $1`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("scenario %s opex overrides: %w", scenarioID, err)
	}
	defer rows.Close()

	var overrides []OpexOverride
	for rows.Next() {
		var o OpexOverride
		if err := rows.Scan(&o.OpexItemID, &o.CostOverride); err != nil {
			return nil, fmt.Errorf("scan opex override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (s *scenarioService) ReplaceOpexOverrides(ctx context.Context, scenarioID string, overrides []OpexOverride) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scenario_opex WHERE scenario_id = $1`, scenarioID); err != nil {
		return fmt.Errorf("clear opex overrides for scenario %s: %w", scenarioID, err)
	}
	for _, o := range overrides {
		if _, err := tx.Exec(ctx, `
			INSERT INTO scenario_opex (id, scenario_id, opex_item_id, cost_override)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), scenarioID, o.OpexItemID, o.CostOverride); err != nil {
			return fmt.Errorf("insert opex override %s: %w", o.OpexItemID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *scenarioService) FxOverrides(ctx context.Context, scenarioID string) ([]FxOverride, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT currency, rate
		FROM scenario_fx
		WHERE scenario_id = $1`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("scenario %s fx overrides: %w", scenarioID, err)
	}
	defer rows.Close()

	var overrides []FxOverride
	for rows.Next() {
		var o FxOverride
		if err := rows.Scan(&o.Currency, &o.Rate); err != nil {
			return nil, fmt.Errorf("scan fx override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (s *scenarioService) ReplaceFxOverrides(ctx context.Context, scenarioID string, overrides []FxOverride) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scenario_fx WHERE scenario_id = $1`, scenarioID); err != nil {
		return fmt.Errorf("clear fx overrides for scenario %s: %w", scenarioID, err)
	}
	for _, o := range overrides {
		if _, err := tx.Exec(ctx, `
			INSERT INTO scenario_fx (id, scenario_id, currency, rate)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), scenarioID, o.Currency, o.Rate); err != nil {
			return fmt.Errorf("insert fx override %s: %w", o.Currency, err)
		}
	}
	return tx.Commit(ctx)
}
