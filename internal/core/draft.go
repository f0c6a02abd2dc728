package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ScenarioDraft is the advisor's proposed what-if overlay. Amounts arrive as
// strings so the model can emit exact values; ToOverrides parses them into
// the persisted override types. A draft is only a proposal until a human
// confirms it.
type ScenarioDraft struct {
	Name             string                 `json:"name" jsonschema_description:"A short descriptive name for the scenario (e.g., 'Eid price cut 10%')."`
	Description      string                 `json:"description" jsonschema_description:"One or two sentences describing the what-if being modelled."`
	DistributionMode string                 `json:"distribution_mode" jsonschema_description:"Month distribution override: 'Uniform', 'Front-loaded', 'Back-loaded', 'Custom', or empty string to keep the campaign's mode."`
	ProductChanges   []DraftProductChange   `json:"product_changes" jsonschema_description:"Per-product overrides. Include only products the what-if actually changes."`
	OpexChanges      []DraftOpexChange      `json:"opex_changes" jsonschema_description:"Per-opex-item cost overrides. Include only items the what-if actually changes."`
	Confidence       float64                `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning        string                 `json:"reasoning" jsonschema_description:"Explanation of how the request maps onto the proposed overrides."`
}

// DraftProductChange overrides fields of one catalogue product. Empty string
// fields mean inherit the base value. Discount and return rate are percent
// values from 0 to 100.
type DraftProductChange struct {
	ProductID     string `json:"product_id" jsonschema_description:"The id of the product to override. Must be one of the provided product ids."`
	Price         string `json:"price" jsonschema_description:"New selling price as an exact decimal string (e.g. '1800.00'), or empty to inherit."`
	DiscountPct   string `json:"discount_pct" jsonschema_description:"New discount percentage from 0 to 100 (e.g. '15'), or empty to inherit."`
	ReturnRatePct string `json:"return_rate_pct" jsonschema_description:"New return rate percentage from 0 to 100, or empty to inherit."`
	UnitCost      string `json:"unit_cost" jsonschema_description:"New total unit cost replacing all cost components, or empty to inherit."`
	Quantity      string `json:"quantity" jsonschema_description:"New total campaign quantity for this product, or empty to inherit."`
}

// DraftOpexChange overrides one opex item's monthly or one-time cost.
type DraftOpexChange struct {
	OpexItemID string `json:"opex_item_id" jsonschema_description:"The id of the opex item to override. Must be one of the provided opex item ids."`
	Cost       string `json:"cost" jsonschema_description:"New cost as an exact decimal string, or empty to inherit."`
}

// Normalize cleans up common LLM formatting issues before validation.
func (d *ScenarioDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.DistributionMode = strings.TrimSpace(d.DistributionMode)

	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return ""
		}
		return s
	}
	for i := range d.ProductChanges {
		pc := &d.ProductChanges[i]
		pc.ProductID = strings.TrimSpace(pc.ProductID)
		pc.Price = clean(pc.Price)
		pc.DiscountPct = clean(pc.DiscountPct)
		pc.ReturnRatePct = clean(pc.ReturnRatePct)
		pc.UnitCost = clean(pc.UnitCost)
		pc.Quantity = clean(pc.Quantity)
	}
	for i := range d.OpexChanges {
		oc := &d.OpexChanges[i]
		oc.OpexItemID = strings.TrimSpace(oc.OpexItemID)
		oc.Cost = clean(oc.Cost)
	}
}

// Validate checks the draft is internally coherent: a name, a known
// distribution mode, parseable non-negative numbers, percent fields in
// range, and at least one actual change.
func (d *ScenarioDraft) Validate() error {
	if d.Name == "" {
		return errors.New("draft must have a name")
	}
	switch DistributionMode(d.DistributionMode) {
	case "", DistUniform, DistFrontLoaded, DistBackLoaded, DistCustom:
	default:
		return fmt.Errorf("unknown distribution mode %q", d.DistributionMode)
	}

	changes := 0
	if d.DistributionMode != "" {
		changes++
	}
	for _, pc := range d.ProductChanges {
		if pc.ProductID == "" {
			return errors.New("product change missing product_id")
		}
		fields := []struct {
			name, value string
			pct         bool
		}{
			{"price", pc.Price, false},
			{"discount_pct", pc.DiscountPct, true},
			{"return_rate_pct", pc.ReturnRatePct, true},
			{"unit_cost", pc.UnitCost, false},
			{"quantity", pc.Quantity, false},
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			changes++
			v, err := decimal.NewFromString(f.value)
			if err != nil {
				return fmt.Errorf("invalid %s %q for product %s: %v", f.name, f.value, pc.ProductID, err)
			}
			if v.IsNegative() {
				return fmt.Errorf("%s cannot be negative for product %s", f.name, pc.ProductID)
			}
			if f.pct && v.GreaterThan(decimal.NewFromInt(100)) {
				return fmt.Errorf("%s must be between 0 and 100 for product %s", f.name, pc.ProductID)
			}
		}
	}
	for _, oc := range d.OpexChanges {
		if oc.OpexItemID == "" {
			return errors.New("opex change missing opex_item_id")
		}
		if oc.Cost == "" {
			continue
		}
		changes++
		v, err := decimal.NewFromString(oc.Cost)
		if err != nil {
			return fmt.Errorf("invalid cost %q for opex item %s: %v", oc.Cost, oc.OpexItemID, err)
		}
		if v.IsNegative() {
			return fmt.Errorf("cost cannot be negative for opex item %s", oc.OpexItemID)
		}
	}

	if changes == 0 {
		return errors.New("draft proposes no changes")
	}
	return nil
}

// ToOverrides converts a validated draft into persistable override sets.
func (d *ScenarioDraft) ToOverrides() ([]ProductOverride, []OpexOverride, error) {
	parse := func(s string) (*decimal.Decimal, error) {
		if s == "" {
			return nil, nil
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}

	var products []ProductOverride
	for _, pc := range d.ProductChanges {
		o := ProductOverride{ProductID: pc.ProductID}
		var err error
		if o.PriceOverride, err = parse(pc.Price); err != nil {
			return nil, nil, fmt.Errorf("product %s price: %w", pc.ProductID, err)
		}
		if o.DiscountOverride, err = parse(pc.DiscountPct); err != nil {
			return nil, nil, fmt.Errorf("product %s discount: %w", pc.ProductID, err)
		}
		if o.ReturnRateOverride, err = parse(pc.ReturnRatePct); err != nil {
			return nil, nil, fmt.Errorf("product %s return rate: %w", pc.ProductID, err)
		}
		if o.CostOverride, err = parse(pc.UnitCost); err != nil {
			return nil, nil, fmt.Errorf("product %s cost: %w", pc.ProductID, err)
		}
		if o.QtyOverride, err = parse(pc.Quantity); err != nil {
			return nil, nil, fmt.Errorf("product %s quantity: %w", pc.ProductID, err)
		}
		products = append(products, o)
	}

	var opex []OpexOverride
	for _, oc := range d.OpexChanges {
		cost, err := parse(oc.Cost)
		if err != nil {
			return nil, nil, fmt.Errorf("opex item %s cost: %w", oc.OpexItemID, err)
		}
		opex = append(opex, OpexOverride{OpexItemID: oc.OpexItemID, CostOverride: cost})
	}
	return products, opex, nil
}
