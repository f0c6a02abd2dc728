package core

import (
	"github.com/shopspring/decimal"
)

// ScenarioInputs is the snapshot of base-campaign data and override layers
// the overlay engine works from. The engine itself is a pure recompute —
// callers assemble this from the repositories, the core never reads storage.
type ScenarioInputs struct {
	BaseQuantities        Quantities
	BaseWeights           MonthWeights        // legacy campaign-level rows
	ProductWeights        ProductMonthWeights // per-product rows
	SizeBreakdown         SizeBreakdown
	OpexItems             []OpexItem // items linked to the base campaign
	ProductOverrides      []ProductOverride
	OpexOverrides         []OpexOverride
	ModeOverride          DistributionMode // empty = use the campaign's stored mode
	CustomWeightsOverride MonthWeights     // scenario-level curve, applied to all products
}

// ScenarioTotals extends campaign totals with the overhead overlay.
// NetProfitVariable is pre-OPEX; NetProfitAfterOpex subtracts OpexTotal.
type ScenarioTotals struct {
	CampaignQty        decimal.Decimal `json:"campaign_qty"`
	GrossRevenue       decimal.Decimal `json:"gross_revenue"`
	EffectiveRevenue   decimal.Decimal `json:"effective_revenue"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	NetProfitVariable  decimal.Decimal `json:"net_profit_variable"`
	OpexTotal          decimal.Decimal `json:"opex_total"`
	NetProfitAfterOpex decimal.Decimal `json:"net_profit_after_opex"`
}

// ApplyProductOverrides merges override rows onto the catalogue and returns
// product id → ScenarioProduct. Each override field is applied independently
// and only when set — unset fields inherit the base value. Discount and
// return-rate overrides are stored as percentages and converted to
// fractions here.
func ApplyProductOverrides(products []Product, overrides []ProductOverride) map[string]ScenarioProduct {
	ovByProduct := make(map[string]ProductOverride, len(overrides))
	for _, o := range overrides {
		ovByProduct[o.ProductID] = o
	}

	out := make(map[string]ScenarioProduct, len(products))
	for _, p := range products {
		sp := ScenarioProduct{
			ID:                p.ID,
			Name:              p.Name,
			Category:          p.Category,
			Price:             p.Price,
			ManufacturingCost: p.ManufacturingCost,
			PackagingCost:     p.PackagingCost,
			ShippingCost:      p.ShippingCost,
			MarketingCost:     p.MarketingCost,
			ReturnRate:        p.ReturnRate,
			DiscountRate:      p.DiscountRate,
			VATIncluded:       p.VATIncluded,
			Notes:             p.Notes,
		}

		if o, ok := ovByProduct[p.ID]; ok {
			if o.PriceOverride != nil {
				sp.Price = *o.PriceOverride
			}
			if o.DiscountOverride != nil {
				sp.DiscountRate = o.DiscountOverride.Div(hundred)
			}
			if o.ReturnRateOverride != nil {
				sp.ReturnRate = o.ReturnRateOverride.Div(hundred)
			}
			if o.CostOverride != nil {
				v := *o.CostOverride
				sp.CostOverride = &v
			}
		}
		out[p.ID] = sp
	}
	return out
}

// ApplyQuantityOverrides replaces base campaign quantities with scenario
// quantity overrides where set. An override may introduce a product that
// has no base quantity row at all.
func ApplyQuantityOverrides(base Quantities, overrides []ProductOverride) Quantities {
	out := make(Quantities, len(base))
	for pid, qty := range base {
		out[pid] = qty
	}
	for _, o := range overrides {
		if o.QtyOverride != nil {
			out[o.ProductID] = *o.QtyOverride
		}
	}
	return out
}

// BuildScenarioForecast layers a scenario's overrides on top of its base
// campaign and recomputes the full forecast plus the OPEX overlay.
//
// Weight-selection precedence per product when the effective mode is Custom
// (highest first): the scenario-level custom-weights override, the
// campaign's per-product weight map, the legacy campaign-level weights,
// then a uniform fallback. Non-Custom modes use the mode's canonical curve
// for every product regardless of stored per-product data.
func BuildScenarioForecast(products []Product, campaign Campaign, in ScenarioInputs) ([]MonthlyRow, []ProductSummaryRow, []SizeRow, ScenarioTotals) {
	mode := in.ModeOverride
	if mode == "" {
		mode = campaign.DistributionMode
	}
	if mode == "" {
		mode = DistUniform
	}

	months := MonthRange(campaign.StartDate, campaign.EndDate)

	spByID := ApplyProductOverrides(products, in.ProductOverrides)
	quantities := ApplyQuantityOverrides(in.BaseQuantities, in.ProductOverrides)

	var monthlyRows []MonthlyRow
	var sizeRows []SizeRow

	for _, pid := range sortedKeys(quantities) {
		sp, ok := spByID[pid]
		if !ok {
			continue
		}
		totalQty := quantities[pid]

		var weights MonthWeights
		if mode == DistCustom {
			switch {
			case len(in.CustomWeightsOverride) > 0:
				weights = BuildDistributionWeights(months, DistCustom, in.CustomWeightsOverride)
			case len(in.ProductWeights[pid]) > 0:
				weights = BuildDistributionWeights(months, DistCustom, in.ProductWeights[pid])
			case len(in.BaseWeights) > 0:
				weights = BuildDistributionWeights(months, DistCustom, in.BaseWeights)
			default:
				weights = BuildDistributionWeights(months, DistCustom, nil)
			}
		} else {
			weights = BuildDistributionWeights(months, mode, nil)
		}
		monthQtys := DistributeQuantity(totalQty, weights)

		// Size rows inherit the base breakdown's shape, scaled so a quantity
		// override stretches every size proportionally. The base split is
		// trusted to match the base total — see the documented mismatch.
		if sizes, ok := in.SizeBreakdown[pid]; ok {
			baseTotal := decimal.Zero
			for _, sqty := range sizes {
				baseTotal = baseTotal.Add(sqty)
			}
			ratio := one
			if !baseTotal.IsZero() {
				ratio = totalQty.Div(baseTotal)
			}

			for _, size := range sortedKeys(sizes) {
				adjQty := sizes[size].Mul(ratio)
				sizeRows = append(sizeRows, SizeRow{
					ProductID:        pid,
					ProductName:      sp.Name,
					Size:             size,
					Qty:              adjQty,
					GrossRevenue:     sp.Price.Mul(adjQty),
					EffectiveRevenue: sp.EffectivePrice().Mul(adjQty),
					TotalCost:        sp.TotalUnitCost().Mul(adjQty),
					NetProfit:        sp.UnitNetProfit().Mul(adjQty),
				})
			}
		}

		for _, m := range months {
			q := monthQtys[m]
			monthlyRows = append(monthlyRows, MonthlyRow{
				Month:            m,
				MonthNice:        MonthLabelNice(m),
				ProductID:        pid,
				ProductName:      sp.Name,
				Category:         sp.Category,
				Qty:              q,
				Price:            sp.Price,
				EffectivePrice:   sp.EffectivePrice(),
				GrossRevenue:     sp.Price.Mul(q),
				EffectiveRevenue: sp.EffectivePrice().Mul(q),
				TotalCost:        sp.TotalUnitCost().Mul(q),
				NetProfit:        sp.UnitNetProfit().Mul(q),
			})
		}
	}

	summary := SummarizeByProduct(monthlyRows)

	base := CampaignTotals(monthlyRows)
	totals := ScenarioTotals{
		CampaignQty:       base.CampaignQty,
		GrossRevenue:      base.GrossRevenue,
		EffectiveRevenue:  base.EffectiveRevenue,
		TotalCost:         base.TotalCost,
		NetProfitVariable: base.NetProfit,
		OpexTotal:         scenarioOpexTotal(months, in.OpexItems, in.OpexOverrides),
	}
	totals.NetProfitAfterOpex = totals.NetProfitVariable.Sub(totals.OpexTotal)

	return monthlyRows, summary, sizeRows, totals
}

// scenarioOpexTotal sums base-campaign opex with scenario cost overrides
// applied (full replacement, not additive). One-time items count once
// regardless of the month range; recurring items count once per campaign
// month inside the item's window, the window defaulting to the campaign
// range when unset.
func scenarioOpexTotal(months []string, items []OpexItem, overrides []OpexOverride) decimal.Decimal {
	if len(months) == 0 {
		return decimal.Zero
	}

	ovByItem := make(map[string]OpexOverride, len(overrides))
	for _, o := range overrides {
		ovByItem[o.OpexItemID] = o
	}

	total := decimal.Zero
	for _, item := range items {
		cost := item.Cost
		if o, ok := ovByItem[item.ID]; ok && o.CostOverride != nil {
			cost = *o.CostOverride
		}

		if item.IsOneTime {
			total = total.Add(cost)
			continue
		}

		startM := item.StartMonth
		if startM == "" {
			startM = months[0]
		}
		endM := months[len(months)-1]
		if item.EndMonth != nil {
			endM = *item.EndMonth
		}

		for _, m := range months {
			if startM <= m && m <= endM {
				total = total.Add(cost)
			}
		}
	}
	return total
}
