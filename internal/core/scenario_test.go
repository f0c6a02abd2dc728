package core_test

import (
	"testing"
	"time"

	"planboard/internal/core"

	"github.com/shopspring/decimal"
)

func sampleCampaign() core.Campaign {
	return core.Campaign{
		ID:               "c1",
		Name:             "Eid Campaign",
		StartDate:        date(2026, time.January),
		EndDate:          date(2026, time.February),
		DistributionMode: core.DistUniform,
		Currency:         "BDT",
	}
}

func TestApplyProductOverrides(t *testing.T) {
	p := sampleProduct()

	out := core.ApplyProductOverrides([]core.Product{p}, []core.ProductOverride{{
		ProductID:          "p1",
		PriceOverride:      decPtr("1800"),
		DiscountOverride:   decPtr("20"),
		ReturnRateOverride: decPtr("10"),
	}})

	sp := out["p1"]
	if !sp.Price.Equal(dec("1800")) {
		t.Errorf("price = %s, want 1800", sp.Price)
	}
	// Percent overrides convert to fractions.
	if !sp.DiscountRate.Equal(dec("0.2")) {
		t.Errorf("discount = %s, want 0.2", sp.DiscountRate)
	}
	if !sp.ReturnRate.Equal(dec("0.1")) {
		t.Errorf("return rate = %s, want 0.1", sp.ReturnRate)
	}
	// Untouched fields inherit.
	if !sp.ManufacturingCost.Equal(dec("800")) {
		t.Errorf("manufacturing cost = %s, want inherited 800", sp.ManufacturingCost)
	}
	if sp.CostOverride != nil {
		t.Errorf("cost override = %v, want nil", sp.CostOverride)
	}
}

func TestApplyQuantityOverrides(t *testing.T) {
	base := core.Quantities{"p1": dec("100")}
	out := core.ApplyQuantityOverrides(base, []core.ProductOverride{
		{ProductID: "p1", QtyOverride: decPtr("50")},
		{ProductID: "p2", QtyOverride: decPtr("30")},
	})

	if !out["p1"].Equal(dec("50")) {
		t.Errorf("p1 qty = %s, want override 50", out["p1"])
	}
	if !out["p2"].Equal(dec("30")) {
		t.Errorf("p2 qty = %s, want introduced 30", out["p2"])
	}
	if !base["p1"].Equal(dec("100")) {
		t.Errorf("base mutated: p1 = %s, want 100", base["p1"])
	}
}

func TestBuildScenarioForecast_QuantityOverrideKeepsCurve(t *testing.T) {
	products := []core.Product{sampleProduct()}
	campaign := sampleCampaign()

	_, _, _, baseTotals := core.BuildScenarioForecast(products, campaign, core.ScenarioInputs{
		BaseQuantities: core.Quantities{"p1": dec("100")},
	})

	rows, _, _, totals := core.BuildScenarioForecast(products, campaign, core.ScenarioInputs{
		BaseQuantities:   core.Quantities{"p1": dec("100")},
		ProductOverrides: []core.ProductOverride{{ProductID: "p1", QtyOverride: decPtr("50")}},
	})

	if !totals.CampaignQty.Equal(dec("50")) {
		t.Errorf("campaign qty = %s, want 50", totals.CampaignQty)
	}
	for _, r := range rows {
		if !r.Qty.Equal(dec("25")) {
			t.Errorf("month %s qty = %s, want 25 (same curve, halved)", r.Month, r.Qty)
		}
	}
	if !totals.NetProfitVariable.Mul(dec("2")).Equal(baseTotals.NetProfitVariable) {
		t.Errorf("halving quantity: net profit %s vs base %s, want exactly half",
			totals.NetProfitVariable, baseTotals.NetProfitVariable)
	}
}

func TestBuildScenarioForecast_CostOverride(t *testing.T) {
	products := []core.Product{sampleProduct()}
	campaign := sampleCampaign()

	_, summary, _, _ := core.BuildScenarioForecast(products, campaign, core.ScenarioInputs{
		BaseQuantities:   core.Quantities{"p1": dec("100")},
		ProductOverrides: []core.ProductOverride{{ProductID: "p1", CostOverride: decPtr("500")}},
	})

	if len(summary) != 1 {
		t.Fatalf("expected 1 summary row, got %d", len(summary))
	}
	// Cost drops from 1170 to 500 per unit: total 50000, profit (1710−500)×100.
	if !summary[0].TotalCost.Equal(dec("50000")) {
		t.Errorf("total cost = %s, want 50000", summary[0].TotalCost)
	}
	if !summary[0].NetProfit.Equal(dec("121000")) {
		t.Errorf("net profit = %s, want 121000", summary[0].NetProfit)
	}
}

func TestBuildScenarioForecast_WeightPrecedence(t *testing.T) {
	products := []core.Product{sampleProduct()}
	campaign := sampleCampaign()
	campaign.DistributionMode = core.DistCustom

	in := core.ScenarioInputs{
		BaseQuantities: core.Quantities{"p1": dec("100")},
		BaseWeights:    core.MonthWeights{"2026-01": 50, "2026-02": 50},
		ProductWeights: core.ProductMonthWeights{"p1": {"2026-01": 100, "2026-02": 0}},
	}

	janQty := func(in core.ScenarioInputs) decimal.Decimal {
		rows, _, _, _ := core.BuildScenarioForecast(products, campaign, in)
		for _, r := range rows {
			if r.Month == "2026-01" {
				return r.Qty
			}
		}
		t.Fatal("no January row")
		return decimal.Zero
	}

	// Per-product weights beat the legacy campaign-level rows.
	if got := janQty(in); !got.Equal(dec("100")) {
		t.Errorf("per-product precedence: jan qty = %s, want 100", got)
	}

	// The scenario-level override beats both.
	in.CustomWeightsOverride = core.MonthWeights{"2026-01": 25, "2026-02": 75}
	if got := janQty(in); !got.Equal(dec("25")) {
		t.Errorf("scenario override precedence: jan qty = %s, want 25", got)
	}

	// Without per-product data the legacy rows apply.
	in.CustomWeightsOverride = nil
	in.ProductWeights = nil
	if got := janQty(in); !got.Equal(dec("50")) {
		t.Errorf("legacy weights: jan qty = %s, want 50", got)
	}

	// A non-Custom mode override ignores all stored curves.
	in.ModeOverride = core.DistFrontLoaded
	if got := janQty(in); !got.Equal(dec("100").Mul(decimal.NewFromFloat(2.0 / 3.0))) {
		t.Errorf("mode override: jan qty = %s, want front-loaded 2/3 share", got)
	}
}

func TestBuildScenarioForecast_SizeRowsScale(t *testing.T) {
	products := []core.Product{sampleProduct()}
	campaign := sampleCampaign()

	_, _, sizes, _ := core.BuildScenarioForecast(products, campaign, core.ScenarioInputs{
		BaseQuantities:   core.Quantities{"p1": dec("100")},
		SizeBreakdown:    core.SizeBreakdown{"p1": {"M": dec("30"), "L": dec("50")}},
		ProductOverrides: []core.ProductOverride{{ProductID: "p1", QtyOverride: decPtr("160")}},
	})

	// The base split sums to 80; a 160 override scales every size by 2.
	bySize := map[string]decimal.Decimal{}
	for _, s := range sizes {
		bySize[s.Size] = s.Qty
	}
	if !bySize["M"].Equal(dec("60")) || !bySize["L"].Equal(dec("100")) {
		t.Errorf("scaled sizes = %v, want M=60 L=100", bySize)
	}
}

func TestBuildScenarioForecast_OpexOverlay(t *testing.T) {
	products := []core.Product{sampleProduct()}
	campaign := sampleCampaign() // Jan–Feb

	in := core.ScenarioInputs{
		BaseQuantities: core.Quantities{"p1": dec("100")},
		OpexItems: []core.OpexItem{
			{ID: "rent", Name: "Office Rent", Cost: dec("30000"), StartMonth: "2025-06"},
			{ID: "launch", Name: "Launch Event", Cost: dec("50000"), StartMonth: "2026-01", IsOneTime: true},
			{ID: "late", Name: "Starts Later", Cost: dec("7000"), StartMonth: "2026-02"},
		},
		OpexOverrides: []core.OpexOverride{
			{OpexItemID: "rent", CostOverride: decPtr("25000")},
		},
	}

	_, _, _, totals := core.BuildScenarioForecast(products, campaign, in)

	// rent 25000×2 + launch 50000 + late 7000×1
	if !totals.OpexTotal.Equal(dec("107000")) {
		t.Errorf("opex total = %s, want 107000", totals.OpexTotal)
	}
	if !totals.NetProfitVariable.Equal(dec("54000")) {
		t.Errorf("variable net profit = %s, want 54000", totals.NetProfitVariable)
	}
	if !totals.NetProfitAfterOpex.Equal(dec("-53000")) {
		t.Errorf("net profit after opex = %s, want -53000", totals.NetProfitAfterOpex)
	}
}
