package core_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"planboard/internal/core"
)

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []string
	}{
		{
			name:  "same month",
			start: date(2026, time.March),
			end:   date(2026, time.March),
			want:  []string{"2026-03"},
		},
		{
			name:  "within a year",
			start: date(2026, time.January),
			end:   date(2026, time.April),
			want:  []string{"2026-01", "2026-02", "2026-03", "2026-04"},
		},
		{
			name:  "crosses year boundary",
			start: date(2025, time.November),
			end:   date(2026, time.February),
			want:  []string{"2025-11", "2025-12", "2026-01", "2026-02"},
		},
		{
			name:  "end before start swaps",
			start: date(2026, time.April),
			end:   date(2026, time.February),
			want:  []string{"2026-02", "2026-03", "2026-04"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.MonthRange(tt.start, tt.end)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MonthRange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthLabelNice(t *testing.T) {
	if got := core.MonthLabelNice("2026-02"); got != "Feb 2026" {
		t.Errorf("MonthLabelNice(2026-02) = %q, want Feb 2026", got)
	}
	if got := core.MonthLabelNice("garbage"); got != "garbage" {
		t.Errorf("unparseable label = %q, want it unchanged", got)
	}
}

func weightsSumToOne(t *testing.T, w core.MonthWeights) {
	t.Helper()
	total := 0.0
	for _, v := range w {
		total += v
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", total)
	}
}

func TestBuildDistributionWeights(t *testing.T) {
	months := []string{"2026-01", "2026-02", "2026-03"}

	t.Run("uniform", func(t *testing.T) {
		w := core.BuildDistributionWeights(months, core.DistUniform, nil)
		weightsSumToOne(t, w)
		for _, m := range months {
			if math.Abs(w[m]-1.0/3.0) > 1e-12 {
				t.Errorf("weight[%s] = %v, want 1/3", m, w[m])
			}
		}
	})

	t.Run("front-loaded descends", func(t *testing.T) {
		w := core.BuildDistributionWeights(months, core.DistFrontLoaded, nil)
		weightsSumToOne(t, w)
		if !(w["2026-01"] > w["2026-02"] && w["2026-02"] > w["2026-03"]) {
			t.Errorf("front-loaded weights not descending: %v", w)
		}
		if math.Abs(w["2026-01"]-0.5) > 1e-12 {
			t.Errorf("first month weight = %v, want 0.5", w["2026-01"])
		}
	})

	t.Run("back-loaded ascends", func(t *testing.T) {
		w := core.BuildDistributionWeights(months, core.DistBackLoaded, nil)
		weightsSumToOne(t, w)
		if !(w["2026-01"] < w["2026-02"] && w["2026-02"] < w["2026-03"]) {
			t.Errorf("back-loaded weights not ascending: %v", w)
		}
	})

	t.Run("custom normalizes and clamps negatives", func(t *testing.T) {
		w := core.BuildDistributionWeights(months, core.DistCustom, core.MonthWeights{
			"2026-01": 60,
			"2026-02": -10,
			"2026-03": 20,
		})
		weightsSumToOne(t, w)
		if math.Abs(w["2026-01"]-0.75) > 1e-12 {
			t.Errorf("weight[2026-01] = %v, want 0.75", w["2026-01"])
		}
		if w["2026-02"] != 0 {
			t.Errorf("negative custom weight = %v, want clamped to 0", w["2026-02"])
		}
	})

	t.Run("custom all-zero falls back to uniform", func(t *testing.T) {
		w := core.BuildDistributionWeights(months, core.DistCustom, core.MonthWeights{})
		weightsSumToOne(t, w)
		for _, m := range months {
			if math.Abs(w[m]-1.0/3.0) > 1e-12 {
				t.Errorf("weight[%s] = %v, want 1/3", m, w[m])
			}
		}
	})

	t.Run("unknown mode falls back to uniform", func(t *testing.T) {
		w := core.BuildDistributionWeights(months, core.DistributionMode("Sideways"), nil)
		weightsSumToOne(t, w)
	})

	t.Run("empty months", func(t *testing.T) {
		w := core.BuildDistributionWeights(nil, core.DistUniform, nil)
		if len(w) != 0 {
			t.Errorf("expected empty weights, got %v", w)
		}
	})
}

func TestDistributeQuantity(t *testing.T) {
	months := []string{"2026-01", "2026-02"}
	w := core.BuildDistributionWeights(months, core.DistUniform, nil)

	out := core.DistributeQuantity(dec("100"), w)
	if !out["2026-01"].Equal(dec("50")) || !out["2026-02"].Equal(dec("50")) {
		t.Errorf("DistributeQuantity = %v, want 50 per month", out)
	}

	total := out["2026-01"].Add(out["2026-02"])
	if !total.Equal(dec("100")) {
		t.Errorf("distributed total = %s, want 100", total)
	}
}

func TestFillRemainderWeight(t *testing.T) {
	months := []string{"2026-01", "2026-02", "2026-03"}

	out := core.FillRemainderWeight(months, core.MonthWeights{"2026-01": 40, "2026-02": 35})
	if out["2026-03"] != 25 {
		t.Errorf("remainder = %v, want 25", out["2026-03"])
	}

	// Overshoot floors at zero rather than going negative.
	out = core.FillRemainderWeight(months, core.MonthWeights{"2026-01": 80, "2026-02": 50})
	if out["2026-03"] != 0 {
		t.Errorf("overshoot remainder = %v, want 0", out["2026-03"])
	}
}

func TestWeightSumWarning(t *testing.T) {
	if msg, warn := core.WeightSumWarning(core.MonthWeights{"2026-01": 60, "2026-02": 40}); warn {
		t.Errorf("unexpected warning %q for weights summing to 100", msg)
	}
	if _, warn := core.WeightSumWarning(core.MonthWeights{"2026-01": 60, "2026-02": 30}); !warn {
		t.Error("expected warning for weights summing to 90")
	}
}
