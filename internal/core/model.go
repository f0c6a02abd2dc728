package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionMode is the policy for spreading a campaign's total quantity
// across its month range.
type DistributionMode string

const (
	DistUniform     DistributionMode = "Uniform"
	DistFrontLoaded DistributionMode = "Front-loaded"
	DistBackLoaded  DistributionMode = "Back-loaded"
	DistCustom      DistributionMode = "Custom"
)

// Product is a catalogue entry. All monetary fields are in the canonical
// storage currency; display conversion happens outside the core.
type Product struct {
	ID                string          `json:"id"`
	ProductCode       string          `json:"product_code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	ManufacturingCost decimal.Decimal `json:"manufacturing_cost"`
	PackagingCost     decimal.Decimal `json:"packaging_cost"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	MarketingCost     decimal.Decimal `json:"marketing_cost"`
	ReturnRate        decimal.Decimal `json:"return_rate"`   // 0..1
	DiscountRate      decimal.Decimal `json:"discount_rate"` // 0..1
	VATIncluded       bool            `json:"vat_included"`
	Notes             string          `json:"notes"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductInput carries the editable fields for create/update.
type ProductInput struct {
	ProductCode       string          `json:"product_code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	ManufacturingCost decimal.Decimal `json:"manufacturing_cost"`
	PackagingCost     decimal.Decimal `json:"packaging_cost"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	MarketingCost     decimal.Decimal `json:"marketing_cost"`
	ReturnRate        decimal.Decimal `json:"return_rate"`
	DiscountRate      decimal.Decimal `json:"discount_rate"`
	VATIncluded       bool            `json:"vat_included"`
	Notes             string          `json:"notes"`
}

// Campaign is a time-boxed sales plan. Quantities, month weights and size
// breakdowns are stored as child collections keyed by campaign id.
type Campaign struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	DistributionMode DistributionMode `json:"distribution_mode"`
	Currency         string           `json:"currency"`
	CreatedAt        time.Time        `json:"created_at"`
}

// OpexItem is a recurring or one-time overhead cost, reusable across
// campaigns via the campaign_opex join table. Months are "YYYY-MM" labels;
// a nil EndMonth means open-ended.
type OpexItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Cost       decimal.Decimal `json:"cost"`
	StartMonth string          `json:"start_month"`
	EndMonth   *string         `json:"end_month,omitempty"`
	IsOneTime  bool            `json:"is_one_time"`
	Notes      string          `json:"notes"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Scenario is a named override layer on top of one base campaign. The base
// campaign is attached through scenario_campaign_links (one active link).
type Scenario struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductOverride holds per-product scenario overrides. Every field is
// individually nullable: nil means "inherit the catalogue/base value".
// Discount and return-rate overrides are stored as percentages (0..100)
// and converted to fractions when applied. CostOverride, when set,
// replaces the sum of the four cost components wholesale.
type ProductOverride struct {
	ProductID          string           `json:"product_id"`
	PriceOverride      *decimal.Decimal `json:"price_override,omitempty"`
	DiscountOverride   *decimal.Decimal `json:"discount_override,omitempty"`
	ReturnRateOverride *decimal.Decimal `json:"return_rate_override,omitempty"`
	CostOverride       *decimal.Decimal `json:"cost_override,omitempty"`
	QtyOverride        *decimal.Decimal `json:"qty_override,omitempty"`
}

// OpexOverride replaces an opex item's cost inside one scenario.
type OpexOverride struct {
	OpexItemID   string           `json:"opex_item_id"`
	CostOverride *decimal.Decimal `json:"cost_override,omitempty"`
}

// FxOverride pins an exchange rate inside one scenario. It is display-only:
// the forecast math never consumes it.
type FxOverride struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// Quantities maps product id → total campaign quantity.
type Quantities map[string]decimal.Decimal

// MonthWeights maps "YYYY-MM" → raw weight. Weights are normalized at read
// time, so they need not sum to anything in storage.
type MonthWeights map[string]float64

// ProductMonthWeights maps product id → per-product month weights.
type ProductMonthWeights map[string]MonthWeights

// SizeBreakdown maps product id → size label → quantity. It is stored
// independently of the product's total quantity and is not reconciled
// against it.
type SizeBreakdown map[string]map[string]decimal.Decimal
