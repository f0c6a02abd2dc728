package core_test

import (
	"testing"

	"planboard/internal/core"
)

func TestScenarioDraft_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		draft     core.ScenarioDraft
		expectErr bool
	}{
		{
			name: "happy path",
			draft: core.ScenarioDraft{
				Name: "Eid price cut",
				ProductChanges: []core.DraftProductChange{
					{ProductID: "p1", Price: "1800.00", DiscountPct: "15"},
				},
			},
			expectErr: false,
		},
		{
			name: "mode-only change",
			draft: core.ScenarioDraft{
				Name:             "Front-load the season",
				DistributionMode: "Front-loaded",
			},
			expectErr: false,
		},
		{
			name:      "no changes at all",
			draft:     core.ScenarioDraft{Name: "Empty"},
			expectErr: true,
		},
		{
			name: "null strings normalize to inherit",
			draft: core.ScenarioDraft{
				Name: "Null cleanup",
				ProductChanges: []core.DraftProductChange{
					{ProductID: "p1", Price: "null", Quantity: "200"},
				},
			},
			expectErr: false,
		},
		{
			name:      "unknown distribution mode",
			draft:     core.ScenarioDraft{Name: "Bad mode", DistributionMode: "Sideways"},
			expectErr: true,
		},
		{
			name: "discount above 100",
			draft: core.ScenarioDraft{
				Name: "Too generous",
				ProductChanges: []core.DraftProductChange{
					{ProductID: "p1", DiscountPct: "150"},
				},
			},
			expectErr: true,
		},
		{
			name: "negative cost",
			draft: core.ScenarioDraft{
				Name: "Negative opex",
				OpexChanges: []core.DraftOpexChange{
					{OpexItemID: "o1", Cost: "-500"},
				},
			},
			expectErr: true,
		},
		{
			name: "missing product id",
			draft: core.ScenarioDraft{
				Name: "No id",
				ProductChanges: []core.DraftProductChange{
					{Price: "1800"},
				},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.draft.Normalize()
			err := tt.draft.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestScenarioDraft_ToOverrides(t *testing.T) {
	d := core.ScenarioDraft{
		Name: "Mixed overrides",
		ProductChanges: []core.DraftProductChange{
			{ProductID: "p1", Price: "1800.00", Quantity: "150"},
			{ProductID: "p2", UnitCost: "420"},
		},
		OpexChanges: []core.DraftOpexChange{
			{OpexItemID: "o1", Cost: "25000"},
		},
	}
	d.Normalize()

	products, opex, err := d.ToOverrides()
	if err != nil {
		t.Fatalf("ToOverrides: %v", err)
	}
	if len(products) != 2 || len(opex) != 1 {
		t.Fatalf("got %d product / %d opex overrides, want 2/1", len(products), len(opex))
	}

	p1 := products[0]
	if p1.PriceOverride == nil || !p1.PriceOverride.Equal(dec("1800")) {
		t.Errorf("p1 price override = %v, want 1800", p1.PriceOverride)
	}
	if p1.QtyOverride == nil || !p1.QtyOverride.Equal(dec("150")) {
		t.Errorf("p1 qty override = %v, want 150", p1.QtyOverride)
	}
	if p1.DiscountOverride != nil {
		t.Errorf("p1 discount override = %v, want nil (inherit)", p1.DiscountOverride)
	}

	p2 := products[1]
	if p2.CostOverride == nil || !p2.CostOverride.Equal(dec("420")) {
		t.Errorf("p2 cost override = %v, want 420", p2.CostOverride)
	}

	if opex[0].CostOverride == nil || !opex[0].CostOverride.Equal(dec("25000")) {
		t.Errorf("opex override = %v, want 25000", opex[0].CostOverride)
	}
}
