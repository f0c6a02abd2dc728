package app

import (
	"planboard/internal/core"

	"github.com/shopspring/decimal"
)

// ProductEconomics is a product's derived per-unit numbers.
type ProductEconomics struct {
	EffectivePrice decimal.Decimal `json:"effective_price"`
	TotalUnitCost  decimal.Decimal `json:"total_unit_cost"`
	UnitNetProfit  decimal.Decimal `json:"unit_net_profit"`
	GrossMarginPct decimal.Decimal `json:"gross_margin_pct"`
	NetMarginPct   decimal.Decimal `json:"net_margin_pct"`
}

// ProductResult is returned by single-product operations.
type ProductResult struct {
	Product   core.Product     `json:"product"`
	Economics ProductEconomics `json:"economics"`
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// CampaignListResult is returned by ListCampaigns.
type CampaignListResult struct {
	Campaigns []core.Campaign `json:"campaigns"`
}

// OpexListResult is returned by ListOpexItems.
type OpexListResult struct {
	Items []core.OpexItem `json:"items"`
}

// ScenarioListResult is returned by ListScenarios.
type ScenarioListResult struct {
	Scenarios []core.Scenario `json:"scenarios"`
}

// ForecastResult is the full campaign forecast: monthly rows, per-product
// summary, size rows, the OPEX month table, and bottom-line totals. Warnings
// carry non-blocking data issues such as custom weights not summing to 100.
type ForecastResult struct {
	Campaign           core.Campaign            `json:"campaign"`
	Months             []string                 `json:"months"`
	MonthlyRows        []core.MonthlyRow        `json:"monthly_rows"`
	Summary            []core.ProductSummaryRow `json:"summary"`
	SizeRows           []core.SizeRow           `json:"size_rows"`
	Totals             core.Totals              `json:"totals"`
	OpexMonths         []core.OpexMonthRow      `json:"opex_months"`
	OpexTotal          decimal.Decimal          `json:"opex_total"`
	NetProfitAfterOpex decimal.Decimal          `json:"net_profit_after_opex"`
	Display            *DisplayView             `json:"display,omitempty"`
	Warnings           []string                 `json:"warnings,omitempty"`
}

// ScenarioDelta is scenario-minus-base for the headline numbers.
type ScenarioDelta struct {
	CampaignQty        decimal.Decimal `json:"campaign_qty"`
	EffectiveRevenue   decimal.Decimal `json:"effective_revenue"`
	NetProfitAfterOpex decimal.Decimal `json:"net_profit_after_opex"`
}

// ScenarioForecastResult reports a scenario side by side with its base
// campaign.
type ScenarioForecastResult struct {
	Scenario        core.Scenario            `json:"scenario"`
	Campaign        core.Campaign            `json:"campaign"`
	BaseTotals      core.ScenarioTotals      `json:"base_totals"`
	ScenarioTotals  core.ScenarioTotals      `json:"scenario_totals"`
	Delta           ScenarioDelta            `json:"delta"`
	MonthlyRows     []core.MonthlyRow        `json:"monthly_rows"`
	Summary         []core.ProductSummaryRow `json:"summary"`
	SizeRows        []core.SizeRow           `json:"size_rows"`
	BaseSummary     []core.ProductSummaryRow `json:"base_summary"`
	BaseMonthlyRows []core.MonthlyRow        `json:"base_monthly_rows"`
	Display         *DisplayView             `json:"display,omitempty"`
}

// DraftResult is returned by DraftScenario.
type DraftResult struct {
	Draft *core.ScenarioDraft `json:"draft"`
}

// DisplayView reprices headline figures into the configured display
// currency. It is present only when that currency differs from the
// campaign currency and a rate is on file.
type DisplayView struct {
	Currency           string          `json:"currency"`
	EffectiveRevenue   decimal.Decimal `json:"effective_revenue"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	NetProfitAfterOpex decimal.Decimal `json:"net_profit_after_opex"`
}

// SettingsResult is returned by GetSettings.
type SettingsResult struct {
	DisplayCurrency string        `json:"display_currency"`
	Rates           []core.FxRate `json:"rates"`
}

// ExportResult is a rendered workbook ready to serve as an attachment.
type ExportResult struct {
	Filename string `json:"filename"`
	Data     []byte `json:"-"`
}
