package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"planboard/internal/ai"
	"planboard/internal/core"
	"planboard/internal/reports"

	"github.com/shopspring/decimal"
)

type appService struct {
	products  core.ProductService
	campaigns core.CampaignService
	opex      core.OpexService
	scenarios core.ScenarioService
	settings  core.SettingsService
	advisor   ai.AdvisorService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// advisor may be nil when no API key is configured; DraftScenario then
// returns an error instead of a proposal.
func NewAppService(
	products core.ProductService,
	campaigns core.CampaignService,
	opex core.OpexService,
	scenarios core.ScenarioService,
	settings core.SettingsService,
	advisor ai.AdvisorService,
) ApplicationService {
	return &appService{
		products:  products,
		campaigns: campaigns,
		opex:      opex,
		scenarios: scenarios,
		settings:  settings,
		advisor:   advisor,
	}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func productEconomics(p core.Product) ProductEconomics {
	return ProductEconomics{
		EffectivePrice: p.EffectivePrice(),
		TotalUnitCost:  p.TotalUnitCost(),
		UnitNetProfit:  p.UnitNetProfit(),
		GrossMarginPct: p.GrossMargin().Mul(decimal.NewFromInt(100)),
		NetMarginPct:   p.NetMargin().Mul(decimal.NewFromInt(100)),
	}
}

func (s *appService) GetProduct(ctx context.Context, id string) (*ProductResult, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: *p, Economics: productEconomics(*p)}, nil
}

func (s *appService) CreateProduct(ctx context.Context, in core.ProductInput) (*ProductResult, error) {
	p, err := s.products.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: *p, Economics: productEconomics(*p)}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id string, in core.ProductInput) (*ProductResult, error) {
	p, err := s.products.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: *p, Economics: productEconomics(*p)}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}

// ── Campaigns ─────────────────────────────────────────────────────────────────

func (s *appService) ListCampaigns(ctx context.Context) (*CampaignListResult, error) {
	campaigns, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	return &CampaignListResult{Campaigns: campaigns}, nil
}

func (s *appService) GetCampaign(ctx context.Context, id string) (*core.CampaignFullData, error) {
	return s.campaigns.FullData(ctx, id)
}

func (s *appService) CreateCampaign(ctx context.Context, in core.CampaignInput) (*core.Campaign, error) {
	return s.campaigns.CreateCampaign(ctx, in)
}

func (s *appService) UpdateCampaign(ctx context.Context, id string, in core.CampaignInput) (*core.Campaign, error) {
	return s.campaigns.UpdateCampaign(ctx, id, in)
}

func (s *appService) CurrentCampaign(ctx context.Context) (*core.Campaign, error) {
	return s.campaigns.LatestOrCreateDefault(ctx)
}

func (s *appService) SetQuantities(ctx context.Context, campaignID string, q core.Quantities) error {
	return s.campaigns.ReplaceQuantities(ctx, campaignID, q)
}

func (s *appService) SetMonthWeights(ctx context.Context, campaignID string, w core.MonthWeights) error {
	return s.campaigns.ReplaceMonthWeights(ctx, campaignID, w)
}

func (s *appService) SetProductMonthWeights(ctx context.Context, campaignID string, w core.ProductMonthWeights) error {
	return s.campaigns.ReplaceProductMonthWeights(ctx, campaignID, w)
}

func (s *appService) SetSizeBreakdown(ctx context.Context, campaignID string, b core.SizeBreakdown) error {
	return s.campaigns.ReplaceSizeBreakdown(ctx, campaignID, b)
}

func (s *appService) SetCampaignOpexLinks(ctx context.Context, campaignID string, opexIDs []string) error {
	return s.opex.ReplaceCampaignLinks(ctx, campaignID, opexIDs)
}

func (s *appService) campaignOpexItems(ctx context.Context, campaignID string) ([]core.OpexItem, error) {
	ids, err := s.opex.CampaignLinks(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return s.opex.ListItemsByIDs(ctx, ids)
}

func (s *appService) GetCampaignForecast(ctx context.Context, campaignID string) (*ForecastResult, error) {
	full, err := s.campaigns.FullData(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	opexItems, err := s.campaignOpexItems(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	c := full.Campaign
	rows, summary, sizes := core.BuildCampaignForecast(
		products, full.Quantities,
		c.StartDate, c.EndDate,
		c.DistributionMode,
		full.MonthWeights, full.ProductWeights, full.SizeBreakdown,
	)
	totals := core.CampaignTotals(rows)

	opexMonths := core.OpexMonthTable(core.ExpandOpexForCampaign(c.StartDate, c.EndDate, opexItems))
	opexTotal := decimal.Zero
	for _, m := range opexMonths {
		opexTotal = opexTotal.Add(m.OpexCost)
	}

	var warnings []string
	if c.DistributionMode == core.DistCustom {
		if len(full.MonthWeights) > 0 {
			if msg, warn := core.WeightSumWarning(full.MonthWeights); warn {
				warnings = append(warnings, msg)
			}
		}
		for _, pid := range sortedProductIDs(full.ProductWeights) {
			if msg, warn := core.WeightSumWarning(full.ProductWeights[pid]); warn {
				warnings = append(warnings, fmt.Sprintf("product %s: %s", pid, msg))
			}
		}
	}

	return &ForecastResult{
		Campaign:           c,
		Months:             core.MonthRange(c.StartDate, c.EndDate),
		MonthlyRows:        rows,
		Summary:            summary,
		SizeRows:           sizes,
		Totals:             totals,
		OpexMonths:         opexMonths,
		OpexTotal:          opexTotal,
		NetProfitAfterOpex: totals.NetProfit.Sub(opexTotal),
		Display: s.displayView(ctx, c.Currency,
			totals.EffectiveRevenue, totals.NetProfit, totals.NetProfit.Sub(opexTotal)),
		Warnings: warnings,
	}, nil
}

// displayView reprices headline figures when the configured display
// currency differs from the campaign currency. Missing rates or lookup
// failures yield no view rather than failing the forecast.
func (s *appService) displayView(ctx context.Context, campaignCurrency string, revenue, netProfit, netAfterOpex decimal.Decimal) *DisplayView {
	currency, err := s.settings.DisplayCurrency(ctx)
	if err != nil || currency == "" || currency == campaignCurrency {
		return nil
	}
	rate, err := s.settings.FxRate(ctx, currency)
	if err != nil || rate.IsZero() {
		return nil
	}
	return &DisplayView{
		Currency:           currency,
		EffectiveRevenue:   core.ConvertAmount(revenue, rate),
		NetProfit:          core.ConvertAmount(netProfit, rate),
		NetProfitAfterOpex: core.ConvertAmount(netAfterOpex, rate),
	}
}

func sortedProductIDs(w core.ProductMonthWeights) []string {
	ids := make([]string, 0, len(w))
	for id := range w {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Opex ──────────────────────────────────────────────────────────────────────

func (s *appService) ListOpexItems(ctx context.Context, activeOnly bool) (*OpexListResult, error) {
	items, err := s.opex.ListItems(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return &OpexListResult{Items: items}, nil
}

func (s *appService) CreateOpexItem(ctx context.Context, in core.OpexInput) (*core.OpexItem, error) {
	return s.opex.CreateItem(ctx, in)
}

func (s *appService) UpdateOpexItem(ctx context.Context, id string, in core.OpexInput) (*core.OpexItem, error) {
	return s.opex.UpdateItem(ctx, id, in)
}

func (s *appService) DeleteOpexItem(ctx context.Context, id string) error {
	return s.opex.DeleteItem(ctx, id)
}

// ── Scenarios ─────────────────────────────────────────────────────────────────

func (s *appService) ListScenarios(ctx context.Context) (*ScenarioListResult, error) {
	scenarios, err := s.scenarios.ListScenarios(ctx)
	if err != nil {
		return nil, err
	}
	return &ScenarioListResult{Scenarios: scenarios}, nil
}

func (s *appService) CreateScenario(ctx context.Context, req CreateScenarioRequest) (*core.Scenario, error) {
	campaignID := req.CampaignID
	if campaignID == "" {
		c, err := s.campaigns.LatestOrCreateDefault(ctx)
		if err != nil {
			return nil, err
		}
		campaignID = c.ID
	}

	sc, err := s.scenarios.CreateScenario(ctx, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.scenarios.LinkToCampaign(ctx, sc.ID, campaignID); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *appService) UpdateScenario(ctx context.Context, id, name, description string) (*core.Scenario, error) {
	return s.scenarios.UpdateScenario(ctx, id, name, description)
}

func (s *appService) DeleteScenario(ctx context.Context, id string) error {
	return s.scenarios.DeleteScenario(ctx, id)
}

func (s *appService) DuplicateScenario(ctx context.Context, id, newName string) (*core.Scenario, error) {
	return s.scenarios.DuplicateScenario(ctx, id, newName)
}

func (s *appService) SetScenarioProductOverrides(ctx context.Context, scenarioID string, overrides []core.ProductOverride) error {
	return s.scenarios.ReplaceProductOverrides(ctx, scenarioID, overrides)
}

func (s *appService) SetScenarioOpexOverrides(ctx context.Context, scenarioID string, overrides []core.OpexOverride) error {
	return s.scenarios.ReplaceOpexOverrides(ctx, scenarioID, overrides)
}

func (s *appService) SetScenarioFxOverrides(ctx context.Context, scenarioID string, overrides []core.FxOverride) error {
	return s.scenarios.ReplaceFxOverrides(ctx, scenarioID, overrides)
}

// scenarioContext loads everything a scenario recompute needs: the scenario,
// its base campaign with child collections, the linked opex items and the
// stored override layers.
func (s *appService) scenarioContext(ctx context.Context, scenarioID string) (*core.Scenario, *core.CampaignFullData, []core.OpexItem, []core.ProductOverride, []core.OpexOverride, error) {
	sc, err := s.scenarios.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	campaignID, err := s.scenarios.BaseCampaignID(ctx, scenarioID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	full, err := s.campaigns.FullData(ctx, campaignID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	opexItems, err := s.campaignOpexItems(ctx, campaignID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	productOv, err := s.scenarios.ProductOverrides(ctx, scenarioID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	opexOv, err := s.scenarios.OpexOverrides(ctx, scenarioID)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	return sc, full, opexItems, productOv, opexOv, nil
}

func (s *appService) GetScenarioForecast(ctx context.Context, scenarioID string, req ScenarioComputeRequest) (*ScenarioForecastResult, error) {
	sc, full, opexItems, productOv, opexOv, err := s.scenarioContext(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	base := core.ScenarioInputs{
		BaseQuantities: full.Quantities,
		BaseWeights:    full.MonthWeights,
		ProductWeights: full.ProductWeights,
		SizeBreakdown:  full.SizeBreakdown,
		OpexItems:      opexItems,
	}
	baseRows, baseSummary, _, baseTotals := core.BuildScenarioForecast(products, full.Campaign, base)

	overlaid := base
	overlaid.ProductOverrides = productOv
	overlaid.OpexOverrides = opexOv
	overlaid.ModeOverride = req.ModeOverride
	overlaid.CustomWeightsOverride = req.CustomWeights
	rows, summary, sizes, totals := core.BuildScenarioForecast(products, full.Campaign, overlaid)

	display := s.displayView(ctx, full.Campaign.Currency,
		totals.EffectiveRevenue, totals.NetProfitVariable, totals.NetProfitAfterOpex)
	if display != nil {
		// A pinned scenario rate wins over the global rate table.
		if fxOv, err := s.scenarios.FxOverrides(ctx, scenarioID); err == nil {
			for _, ov := range fxOv {
				if ov.Currency == display.Currency && !ov.Rate.IsZero() {
					display.EffectiveRevenue = core.ConvertAmount(totals.EffectiveRevenue, ov.Rate)
					display.NetProfit = core.ConvertAmount(totals.NetProfitVariable, ov.Rate)
					display.NetProfitAfterOpex = core.ConvertAmount(totals.NetProfitAfterOpex, ov.Rate)
				}
			}
		}
	}

	return &ScenarioForecastResult{
		Scenario:       *sc,
		Campaign:       full.Campaign,
		BaseTotals:     baseTotals,
		ScenarioTotals: totals,
		Delta: ScenarioDelta{
			CampaignQty:        totals.CampaignQty.Sub(baseTotals.CampaignQty),
			EffectiveRevenue:   totals.EffectiveRevenue.Sub(baseTotals.EffectiveRevenue),
			NetProfitAfterOpex: totals.NetProfitAfterOpex.Sub(baseTotals.NetProfitAfterOpex),
		},
		MonthlyRows:     rows,
		Summary:         summary,
		SizeRows:        sizes,
		BaseSummary:     baseSummary,
		BaseMonthlyRows: baseRows,
		Display:         display,
	}, nil
}

// ── Advisor ───────────────────────────────────────────────────────────────────

func (s *appService) DraftScenario(ctx context.Context, text string) (*DraftResult, error) {
	if s.advisor == nil {
		return nil, fmt.Errorf("advisor not configured: set OPENAI_API_KEY")
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.opex.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}

	var pc strings.Builder
	for _, p := range products {
		fmt.Fprintf(&pc, "%s | %s | %s | price %s | discount %s | return %s | unit cost %s\n",
			p.ID, p.Name, p.Category, p.Price, p.DiscountRate, p.ReturnRate, p.TotalUnitCost())
	}
	var oc strings.Builder
	for _, it := range items {
		kind := "recurring"
		if it.IsOneTime {
			kind = "one-time"
		}
		fmt.Fprintf(&oc, "%s | %s | %s | cost %s | %s from %s\n",
			it.ID, it.Name, it.Category, it.Cost, kind, it.StartMonth)
	}

	draft, err := s.advisor.DraftScenario(ctx, text, pc.String(), oc.String())
	if err != nil {
		return nil, err
	}
	return &DraftResult{Draft: draft}, nil
}

// ── Settings ──────────────────────────────────────────────────────────────────

func (s *appService) GetSettings(ctx context.Context) (*SettingsResult, error) {
	currency, err := s.settings.DisplayCurrency(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.settings.FxRates(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsResult{DisplayCurrency: currency, Rates: rates}, nil
}

func (s *appService) SetDisplayCurrency(ctx context.Context, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return &core.ValidationError{Violations: []string{"missing required field: currency"}}
	}
	return s.settings.SetDisplayCurrency(ctx, currency)
}

func (s *appService) UpsertFxRate(ctx context.Context, currency string, rate string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return &core.ValidationError{Violations: []string{"missing required field: currency"}}
	}
	r, err := decimal.NewFromString(rate)
	if err != nil || !r.IsPositive() {
		return &core.ValidationError{Violations: []string{"rate must be a positive number"}}
	}
	return s.settings.UpsertFxRate(ctx, currency, r)
}

// ── Exports ───────────────────────────────────────────────────────────────────

func exportFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
}

func (s *appService) ExportProductMaster(ctx context.Context) (*ExportResult, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	data, err := reports.ProductMaster(products)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: exportFilename("product_master"), Data: data}, nil
}

func (s *appService) ExportOpexMaster(ctx context.Context) (*ExportResult, error) {
	items, err := s.opex.ListItems(ctx, false)
	if err != nil {
		return nil, err
	}
	data, err := reports.OpexMaster(items)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: exportFilename("opex_master"), Data: data}, nil
}

func (s *appService) ExportCampaignWorkbook(ctx context.Context, campaignID string) (*ExportResult, error) {
	f, err := s.GetCampaignForecast(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	data, err := reports.CampaignWorkbook(reports.CampaignSheetData{
		Campaign:           f.Campaign,
		MonthlyRows:        f.MonthlyRows,
		Summary:            f.Summary,
		SizeRows:           f.SizeRows,
		OpexMonths:         f.OpexMonths,
		Totals:             f.Totals,
		OpexTotal:          f.OpexTotal,
		NetProfitAfterOpex: f.NetProfitAfterOpex,
	})
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: exportFilename("campaign_forecast"), Data: data}, nil
}

func (s *appService) ExportScenarioComparison(ctx context.Context, scenarioID string) (*ExportResult, error) {
	f, err := s.GetScenarioForecast(ctx, scenarioID, ScenarioComputeRequest{})
	if err != nil {
		return nil, err
	}
	data, err := reports.ScenarioComparison(reports.ComparisonSheetData{
		Scenario:        f.Scenario,
		Campaign:        f.Campaign,
		BaseTotals:      f.BaseTotals,
		ScenarioTotals:  f.ScenarioTotals,
		BaseSummary:     f.BaseSummary,
		ScenarioSummary: f.Summary,
	})
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: exportFilename("scenario_comparison"), Data: data}, nil
}
