package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// guardDenom implements the dashboard's division policy: a zero denominator
// is replaced by 1 so margin math never fails on a zero price or revenue.
// The result is a zero margin, not an error.
func guardDenom(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return one
	}
	return d
}

// EffectivePrice is the unit price after discount and expected-return
// shrinkage: price × (1 − discount) × (1 − return).
func (p Product) EffectivePrice() decimal.Decimal {
	afterDiscount := p.Price.Mul(one.Sub(p.DiscountRate))
	return afterDiscount.Mul(one.Sub(p.ReturnRate))
}

// TotalUnitCost sums the four cost components.
func (p Product) TotalUnitCost() decimal.Decimal {
	return p.ManufacturingCost.Add(p.PackagingCost).Add(p.ShippingCost).Add(p.MarketingCost)
}

// UnitGrossProfit is list price minus manufacturing cost.
func (p Product) UnitGrossProfit() decimal.Decimal {
	return p.Price.Sub(p.ManufacturingCost)
}

// UnitNetProfit is effective price minus total unit cost.
func (p Product) UnitNetProfit() decimal.Decimal {
	return p.EffectivePrice().Sub(p.TotalUnitCost())
}

// GrossMargin is unit gross profit over price, zero-guarded.
func (p Product) GrossMargin() decimal.Decimal {
	return p.UnitGrossProfit().Div(guardDenom(p.Price))
}

// NetMargin is unit net profit over effective price, zero-guarded.
func (p Product) NetMargin() decimal.Decimal {
	return p.UnitNetProfit().Div(guardDenom(p.EffectivePrice()))
}

// ValidateProduct checks a product input and returns a list of
// human-readable violations. An empty list means the input is valid.
// Validation never blocks computation — callers decide whether to
// reject a save.
func ValidateProduct(in ProductInput) []string {
	var violations []string

	if strings.TrimSpace(in.Name) == "" {
		violations = append(violations, "missing required field: name")
	}
	if strings.TrimSpace(in.Category) == "" {
		violations = append(violations, "missing required field: category")
	}

	numeric := []struct {
		field string
		value decimal.Decimal
	}{
		{"price", in.Price},
		{"manufacturing_cost", in.ManufacturingCost},
		{"packaging_cost", in.PackagingCost},
		{"shipping_cost", in.ShippingCost},
		{"marketing_cost", in.MarketingCost},
		{"return_rate", in.ReturnRate},
		{"discount_rate", in.DiscountRate},
	}
	for _, n := range numeric {
		if n.value.IsNegative() {
			violations = append(violations, fmt.Sprintf("%s cannot be negative", n.field))
		}
	}

	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"return_rate", in.ReturnRate},
		{"discount_rate", in.DiscountRate},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(one) {
			violations = append(violations, fmt.Sprintf("%s must be between 0 and 1", r.field))
		}
	}

	return violations
}

// ScenarioProduct is a product view after scenario overrides have been
// applied. CostOverride, when set, replaces the sum of the four cost
// components wholesale — it does not add to them.
type ScenarioProduct struct {
	ID                string
	Name              string
	Category          string
	Price             decimal.Decimal
	ManufacturingCost decimal.Decimal
	PackagingCost     decimal.Decimal
	ShippingCost      decimal.Decimal
	MarketingCost     decimal.Decimal
	ReturnRate        decimal.Decimal
	DiscountRate      decimal.Decimal
	VATIncluded       bool
	Notes             string
	CostOverride      *decimal.Decimal
}

// EffectivePrice mirrors Product.EffectivePrice over the overridden fields.
func (p ScenarioProduct) EffectivePrice() decimal.Decimal {
	afterDiscount := p.Price.Mul(one.Sub(p.DiscountRate))
	return afterDiscount.Mul(one.Sub(p.ReturnRate))
}

// TotalUnitCost honors the wholesale cost override when present.
func (p ScenarioProduct) TotalUnitCost() decimal.Decimal {
	if p.CostOverride != nil {
		return *p.CostOverride
	}
	return p.ManufacturingCost.Add(p.PackagingCost).Add(p.ShippingCost).Add(p.MarketingCost)
}

// UnitNetProfit is effective price minus total unit cost.
func (p ScenarioProduct) UnitNetProfit() decimal.Decimal {
	return p.EffectivePrice().Sub(p.TotalUnitCost())
}
