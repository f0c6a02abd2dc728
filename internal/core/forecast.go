package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MonthlyRow is one (product, month) slice of a campaign forecast.
type MonthlyRow struct {
	Month            string          `json:"month"`
	MonthNice        string          `json:"month_nice"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Category         string          `json:"category"`
	Qty              decimal.Decimal `json:"qty"`
	Price            decimal.Decimal `json:"price"`
	EffectivePrice   decimal.Decimal `json:"effective_price"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
	EffectiveRevenue decimal.Decimal `json:"effective_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// SizeRow is one (product, size) slice of a campaign forecast. Size
// quantities are taken as entered — they are not reconciled against the
// product's total campaign quantity.
type SizeRow struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Size             string          `json:"size"`
	Qty              decimal.Decimal `json:"qty"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
	EffectiveRevenue decimal.Decimal `json:"effective_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// ProductSummaryRow aggregates a product's monthly rows across the whole
// campaign. Margin percentages are zero-guarded: a zero denominator is
// replaced by 1, yielding a 0 margin instead of a division failure.
type ProductSummaryRow struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Category         string          `json:"category"`
	CampaignQty      decimal.Decimal `json:"campaign_qty"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
	EffectiveRevenue decimal.Decimal `json:"effective_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	GrossMarginPct   decimal.Decimal `json:"gross_margin_pct"`
	NetMarginPct     decimal.Decimal `json:"net_margin_pct"`
}

// Totals are the campaign-wide sums over all monthly rows.
type Totals struct {
	CampaignQty      decimal.Decimal `json:"campaign_qty"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
	EffectiveRevenue decimal.Decimal `json:"effective_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// BuildCampaignForecast expands campaign quantities over months, products
// and sizes into revenue/cost rows plus a per-product summary.
//
// Weight selection: when mode is Custom and a per-product weight map exists
// for a product, that product gets its own normalized curve; in every other
// case (Uniform, Front-loaded, Back-loaded, or no per-product data) all
// products share the base curve. Quantities referencing product ids absent
// from the catalogue are silently skipped.
func BuildCampaignForecast(
	products []Product,
	quantities Quantities,
	start, end time.Time,
	mode DistributionMode,
	baseMonthWeights MonthWeights,
	perProductWeights ProductMonthWeights,
	sizeBreakdown SizeBreakdown,
) ([]MonthlyRow, []ProductSummaryRow, []SizeRow) {
	months := MonthRange(start, end)
	baseWeights := BuildDistributionWeights(months, mode, baseMonthWeights)

	prodByID := make(map[string]Product, len(products))
	for _, p := range products {
		prodByID[p.ID] = p
	}

	var monthlyRows []MonthlyRow
	var sizeRows []SizeRow

	for _, pid := range sortedKeys(quantities) {
		p, ok := prodByID[pid]
		if !ok {
			continue
		}
		totalQty := quantities[pid]

		weights := baseWeights
		if mode == DistCustom {
			if pw, ok := perProductWeights[pid]; ok {
				weights = BuildDistributionWeights(months, DistCustom, pw)
			}
		}
		monthQtys := DistributeQuantity(totalQty, weights)

		if sizes, ok := sizeBreakdown[pid]; ok {
			for _, size := range sortedKeys(sizes) {
				sqty := sizes[size]
				sizeRows = append(sizeRows, SizeRow{
					ProductID:        pid,
					ProductName:      p.Name,
					Size:             size,
					Qty:              sqty,
					GrossRevenue:     p.Price.Mul(sqty),
					EffectiveRevenue: p.EffectivePrice().Mul(sqty),
					TotalCost:        p.TotalUnitCost().Mul(sqty),
					NetProfit:        p.UnitNetProfit().Mul(sqty),
				})
			}
		}

		for _, m := range months {
			q := monthQtys[m]
			monthlyRows = append(monthlyRows, MonthlyRow{
				Month:            m,
				MonthNice:        MonthLabelNice(m),
				ProductID:        pid,
				ProductName:      p.Name,
				Category:         p.Category,
				Qty:              q,
				Price:            p.Price,
				EffectivePrice:   p.EffectivePrice(),
				GrossRevenue:     p.Price.Mul(q),
				EffectiveRevenue: p.EffectivePrice().Mul(q),
				TotalCost:        p.TotalUnitCost().Mul(q),
				NetProfit:        p.UnitNetProfit().Mul(q),
			})
		}
	}

	return monthlyRows, SummarizeByProduct(monthlyRows), sizeRows
}

// SummarizeByProduct aggregates monthly rows into one row per product,
// preserving the order in which products first appear.
func SummarizeByProduct(monthlyRows []MonthlyRow) []ProductSummaryRow {
	if len(monthlyRows) == 0 {
		return nil
	}

	index := make(map[string]int)
	var summary []ProductSummaryRow
	for _, r := range monthlyRows {
		i, ok := index[r.ProductID]
		if !ok {
			i = len(summary)
			index[r.ProductID] = i
			summary = append(summary, ProductSummaryRow{
				ProductID:   r.ProductID,
				ProductName: r.ProductName,
				Category:    r.Category,
			})
		}
		s := &summary[i]
		s.CampaignQty = s.CampaignQty.Add(r.Qty)
		s.GrossRevenue = s.GrossRevenue.Add(r.GrossRevenue)
		s.EffectiveRevenue = s.EffectiveRevenue.Add(r.EffectiveRevenue)
		s.TotalCost = s.TotalCost.Add(r.TotalCost)
		s.NetProfit = s.NetProfit.Add(r.NetProfit)
	}

	for i := range summary {
		s := &summary[i]
		s.GrossMarginPct = s.GrossRevenue.Sub(s.TotalCost).Div(guardDenom(s.GrossRevenue)).Mul(hundred)
		s.NetMarginPct = s.NetProfit.Div(guardDenom(s.EffectiveRevenue)).Mul(hundred)
	}
	return summary
}

// CampaignTotals sums monthly rows across the whole campaign. An empty
// input yields all-zero totals, never an error.
func CampaignTotals(monthlyRows []MonthlyRow) Totals {
	var t Totals
	for _, r := range monthlyRows {
		t.CampaignQty = t.CampaignQty.Add(r.Qty)
		t.GrossRevenue = t.GrossRevenue.Add(r.GrossRevenue)
		t.EffectiveRevenue = t.EffectiveRevenue.Add(r.EffectiveRevenue)
		t.TotalCost = t.TotalCost.Add(r.TotalCost)
		t.NetProfit = t.NetProfit.Add(r.NetProfit)
	}
	return t
}

// sortedKeys returns the keys of a string-keyed map in sorted order so
// forecast output is deterministic run to run.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
