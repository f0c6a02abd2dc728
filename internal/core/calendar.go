package core

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MonthRange returns the ordered "YYYY-MM" labels between start and end,
// inclusive of both ends. When end precedes start the two are swapped
// first, so the result is never empty — a single month at minimum.
func MonthRange(start, end time.Time) []string {
	if end.Before(start) {
		start, end = end, start
	}

	var months []string
	y, m := start.Year(), int(start.Month())
	endY, endM := end.Year(), int(end.Month())
	for y < endY || (y == endY && m <= endM) {
		months = append(months, fmt.Sprintf("%04d-%02d", y, m))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return months
}

// MonthLabelNice converts "2026-02" into "Feb 2026" for display. Labels
// that do not parse are returned unchanged.
func MonthLabelNice(label string) string {
	t, err := time.Parse("2006-01", label)
	if err != nil {
		return label
	}
	return t.Format("Jan 2006")
}

// BuildDistributionWeights maps each month to a fraction of the total,
// summing to 1.0, or an empty map when months is empty.
//
//   - Uniform: equal weight per month.
//   - Front-loaded: raw weights n, n−1, …, 1 (first month heaviest).
//   - Back-loaded: raw weights 1, 2, …, n (last month heaviest).
//   - Custom: the supplied per-month weights, negatives clamped to 0;
//     a nil or all-zero map silently falls back to Uniform.
//
// Unknown modes fall back to Uniform as well.
func BuildDistributionWeights(months []string, mode DistributionMode, custom MonthWeights) MonthWeights {
	n := len(months)
	if n == 0 {
		return MonthWeights{}
	}

	raw := make([]float64, n)
	switch mode {
	case DistFrontLoaded:
		for i := range raw {
			raw[i] = float64(n - i)
		}
	case DistBackLoaded:
		for i := range raw {
			raw[i] = float64(i + 1)
		}
	case DistCustom:
		total := 0.0
		for i, m := range months {
			raw[i] = math.Max(0, custom[m])
			total += raw[i]
		}
		if total == 0 {
			for i := range raw {
				raw[i] = 1
			}
		}
	default: // Uniform and anything unrecognized
		for i := range raw {
			raw[i] = 1
		}
	}

	total := 0.0
	for _, w := range raw {
		total += w
	}

	weights := make(MonthWeights, n)
	for i, m := range months {
		weights[m] = raw[i] / total
	}
	return weights
}

// DistributeQuantity spreads a total quantity over months according to the
// given weight map. Fractional units are expected — callers round for
// display only.
func DistributeQuantity(total decimal.Decimal, weights MonthWeights) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(weights))
	for m, w := range weights {
		out[m] = total.Mul(decimal.NewFromFloat(w))
	}
	return out
}

// FillRemainderWeight returns a copy of pct with the last month of the
// range set to whatever remains up to 100, floored at 0. Months outside
// the range are dropped. Used by custom-percentage entry forms where the
// final month auto-fills.
func FillRemainderWeight(months []string, pct MonthWeights) MonthWeights {
	out := make(MonthWeights, len(months))
	if len(months) == 0 {
		return out
	}
	used := 0.0
	for _, m := range months[:len(months)-1] {
		out[m] = pct[m]
		used += pct[m]
	}
	out[months[len(months)-1]] = math.Max(0, 100-used)
	return out
}

// WeightSumWarning reports a non-blocking warning when custom per-month
// percentages deviate from 100. The forecast still runs — weights are
// normalized at read time — so this only informs the user.
func WeightSumWarning(pct MonthWeights) (string, bool) {
	total := 0.0
	for _, w := range pct {
		total += w
	}
	if math.Abs(total-100) <= 0.01 {
		return "", false
	}
	return fmt.Sprintf("custom month weights sum to %.1f%%, expected 100%%; the last month auto-adjusts, but keep the sum near 100%%", total), true
}
