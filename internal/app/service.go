package app

import (
	"context"

	"planboard/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListProducts returns all active catalogue products.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns one product with its derived unit economics.
	GetProduct(ctx context.Context, id string) (*ProductResult, error)

	// CreateProduct validates and saves a new catalogue product.
	CreateProduct(ctx context.Context, in core.ProductInput) (*ProductResult, error)

	// UpdateProduct validates and saves changes to an existing product.
	UpdateProduct(ctx context.Context, id string, in core.ProductInput) (*ProductResult, error)

	// DeleteProduct soft-deletes a product; historical campaign rows keep
	// referencing it.
	DeleteProduct(ctx context.Context, id string) error

	// ListCampaigns returns all campaigns, newest first.
	ListCampaigns(ctx context.Context) (*CampaignListResult, error)

	// GetCampaign returns campaign metadata with all child collections.
	GetCampaign(ctx context.Context, id string) (*core.CampaignFullData, error)

	// CreateCampaign saves a new campaign.
	CreateCampaign(ctx context.Context, in core.CampaignInput) (*core.Campaign, error)

	// UpdateCampaign saves changes to an existing campaign.
	UpdateCampaign(ctx context.Context, id string, in core.CampaignInput) (*core.Campaign, error)

	// CurrentCampaign returns the most recent campaign, creating a default
	// one on first use so the dashboard always has something to show.
	CurrentCampaign(ctx context.Context) (*core.Campaign, error)

	// SetQuantities replaces the campaign's per-product quantities.
	SetQuantities(ctx context.Context, campaignID string, q core.Quantities) error

	// SetMonthWeights replaces the campaign-level custom month weights.
	SetMonthWeights(ctx context.Context, campaignID string, w core.MonthWeights) error

	// SetProductMonthWeights replaces per-product custom month weights.
	SetProductMonthWeights(ctx context.Context, campaignID string, w core.ProductMonthWeights) error

	// SetSizeBreakdown replaces the campaign's per-product size split.
	SetSizeBreakdown(ctx context.Context, campaignID string, b core.SizeBreakdown) error

	// SetCampaignOpexLinks replaces the set of opex items linked to the
	// campaign.
	SetCampaignOpexLinks(ctx context.Context, campaignID string, opexIDs []string) error

	// GetCampaignForecast assembles the campaign's stored data and runs the
	// full monthly/size/summary forecast plus the OPEX overlay.
	GetCampaignForecast(ctx context.Context, campaignID string) (*ForecastResult, error)

	// ListOpexItems returns opex items, optionally only active ones.
	ListOpexItems(ctx context.Context, activeOnly bool) (*OpexListResult, error)

	// CreateOpexItem saves a new overhead item.
	CreateOpexItem(ctx context.Context, in core.OpexInput) (*core.OpexItem, error)

	// UpdateOpexItem saves changes to an existing overhead item.
	UpdateOpexItem(ctx context.Context, id string, in core.OpexInput) (*core.OpexItem, error)

	// DeleteOpexItem soft-deletes an overhead item.
	DeleteOpexItem(ctx context.Context, id string) error

	// ListScenarios returns all saved scenarios, newest first.
	ListScenarios(ctx context.Context) (*ScenarioListResult, error)

	// CreateScenario saves a scenario and links it to its base campaign.
	CreateScenario(ctx context.Context, req CreateScenarioRequest) (*core.Scenario, error)

	// UpdateScenario renames or re-describes a scenario.
	UpdateScenario(ctx context.Context, id, name, description string) (*core.Scenario, error)

	// DeleteScenario removes a scenario and its override layers.
	DeleteScenario(ctx context.Context, id string) error

	// DuplicateScenario copies a scenario with all override layers.
	DuplicateScenario(ctx context.Context, id, newName string) (*core.Scenario, error)

	// SetScenarioProductOverrides replaces the scenario's product overrides.
	SetScenarioProductOverrides(ctx context.Context, scenarioID string, overrides []core.ProductOverride) error

	// SetScenarioOpexOverrides replaces the scenario's opex overrides.
	SetScenarioOpexOverrides(ctx context.Context, scenarioID string, overrides []core.OpexOverride) error

	// SetScenarioFxOverrides replaces the scenario's pinned exchange rates.
	SetScenarioFxOverrides(ctx context.Context, scenarioID string, overrides []core.FxOverride) error

	// GetScenarioForecast recomputes the base campaign with the scenario's
	// overrides applied and reports it side by side with the base.
	GetScenarioForecast(ctx context.Context, scenarioID string, req ScenarioComputeRequest) (*ScenarioForecastResult, error)

	// DraftScenario asks the advisor to turn a natural-language what-if
	// request into a structured override proposal. Nothing is persisted.
	DraftScenario(ctx context.Context, text string) (*DraftResult, error)

	// GetSettings returns the display currency and known exchange rates.
	GetSettings(ctx context.Context) (*SettingsResult, error)

	// SetDisplayCurrency switches the display currency.
	SetDisplayCurrency(ctx context.Context, currency string) error

	// UpsertFxRate creates or updates one exchange rate.
	UpsertFxRate(ctx context.Context, currency string, rate string) error

	// ExportProductMaster renders the product catalogue as an xlsx workbook.
	ExportProductMaster(ctx context.Context) (*ExportResult, error)

	// ExportOpexMaster renders the opex catalogue as an xlsx workbook.
	ExportOpexMaster(ctx context.Context) (*ExportResult, error)

	// ExportCampaignWorkbook renders a campaign's full forecast as an xlsx
	// workbook with monthly, summary, size and opex sheets.
	ExportCampaignWorkbook(ctx context.Context, campaignID string) (*ExportResult, error)

	// ExportScenarioComparison renders a base-vs-scenario comparison as an
	// xlsx workbook.
	ExportScenarioComparison(ctx context.Context, scenarioID string) (*ExportResult, error)
}
