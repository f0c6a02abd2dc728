package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OpexInput carries the editable fields of an opex item.
type OpexInput struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Cost       decimal.Decimal `json:"cost"`
	StartMonth string          `json:"start_month"`
	EndMonth   *string         `json:"end_month,omitempty"`
	IsOneTime  bool            `json:"is_one_time"`
	Notes      string          `json:"notes"`
}

// OpexService manages the global opex library and campaign↔opex links.
type OpexService interface {
	// ListItems returns the opex library, newest first. activeOnly filters
	// soft-deleted items out.
	ListItems(ctx context.Context, activeOnly bool) ([]OpexItem, error)

	// ListItemsByIDs returns library items for the given ids; unknown ids
	// are silently absent from the result.
	ListItemsByIDs(ctx context.Context, ids []string) ([]OpexItem, error)

	CreateItem(ctx context.Context, in OpexInput) (*OpexItem, error)
	UpdateItem(ctx context.Context, id string, in OpexInput) (*OpexItem, error)
	DeleteItem(ctx context.Context, id string) error

	// CampaignLinks returns the opex item ids attached to a campaign.
	CampaignLinks(ctx context.Context, campaignID string) ([]string, error)

	// ReplaceCampaignLinks makes the campaign's link set match opexIDs
	// exactly (replace-set semantics).
	ReplaceCampaignLinks(ctx context.Context, campaignID string, opexIDs []string) error
}

type opexService struct {
	pool *pgxpool.Pool
}

// NewOpexService constructs an OpexService backed by PostgreSQL.
func NewOpexService(pool *pgxpool.Pool) OpexService {
	return &opexService{pool: pool}
}

const opexColumns = `id, name, category, cost, start_month, end_month, is_one_time, notes, is_active, created_at, updated_at`

func scanOpexItem(row pgx.Row) (*OpexItem, error) {
	it := &OpexItem{}
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Cost, &it.StartMonth, &it.EndMonth,
		&it.IsOneTime, &it.Notes, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *opexService) ListItems(ctx context.Context, activeOnly bool) ([]OpexItem, error) {
	q := `SELECT ` + opexColumns + ` FROM opex_items`
	if activeOnly {
		q += ` WHERE is_active = true`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list opex items: %w", err)
	}
	defer rows.Close()

	var items []OpexItem
	for rows.Next() {
		it, err := scanOpexItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opex item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *opexService) ListItemsByIDs(ctx context.Context, ids []string) ([]OpexItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+opexColumns+` FROM opex_items WHERE id = ANY($1) ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, fmt.Errorf("list opex items by id: %w", err)
	}
	defer rows.Close()

	var items []OpexItem
	for rows.Next() {
		it, err := scanOpexItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opex item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *opexService) CreateItem(ctx context.Context, in OpexInput) (*OpexItem, error) {
	it, err := scanOpexItem(s.pool.QueryRow(ctx, `
		INSERT INTO opex_items (id, name, category, cost, start_month, end_month, is_one_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+opexColumns,
		uuid.NewString(), in.Name, in.Category, in.Cost, in.StartMonth, in.EndMonth, in.IsOneTime, in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("create opex item %q: %w", in.Name, err)
	}
	return it, nil
}

func (s *opexService) UpdateItem(ctx context.Context, id string, in OpexInput) (*OpexItem, error) {
	it, err := scanOpexItem(s.pool.QueryRow(ctx, `
		UPDATE opex_items
		SET name = $2, category = $3, cost = $4, start_month = $5, end_month = $6,
			is_one_time = $7, notes = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+opexColumns,
		id, in.Name, in.Category, in.Cost, in.StartMonth, in.EndMonth, in.IsOneTime, in.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("opex item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update opex item %s: %w", id, err)
	}
	return it, nil
}

func (s *opexService) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE opex_items SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete opex item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("opex item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *opexService) CampaignLinks(ctx context.Context, campaignID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT opex_id FROM campaign_opex WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s opex links: %w", campaignID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan opex link: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *opexService) ReplaceCampaignLinks(ctx context.Context, campaignID string, opexIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM campaign_opex WHERE campaign_id = $1`, campaignID); err != nil {
		return fmt.Errorf("clear opex links for campaign %s: %w", campaignID, err)
	}
	for _, oid := range opexIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO campaign_opex (id, campaign_id, opex_id) VALUES ($1, $2, $3)`,
			uuid.NewString(), campaignID, oid); err != nil {
			return fmt.Errorf("insert opex link %s: %w", oid, err)
		}
	}
	return tx.Commit(ctx)
}
