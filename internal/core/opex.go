package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// openEndedMonth stands in for a missing end_month so plain string
// comparison keeps working on "YYYY-MM" labels.
const openEndedMonth = "9999-12"

// OpexRow is one (opex item, month) occurrence inside a campaign's range.
type OpexRow struct {
	Month     string          `json:"month"`
	MonthNice string          `json:"month_nice"`
	OpexID    string          `json:"opex_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Cost      decimal.Decimal `json:"cost"`
	IsOneTime bool            `json:"is_one_time"`
	Notes     string          `json:"notes"`
}

// OpexMonthRow is the per-month aggregate of expanded opex rows.
type OpexMonthRow struct {
	Month     string          `json:"month"`
	MonthNice string          `json:"month_nice"`
	OpexCost  decimal.Decimal `json:"opex_cost"`
}

// ExpandOpexForCampaign projects opex items onto a campaign's month range,
// one row per (item, applicable month). An item applies to month m when
// start_month ≤ m ≤ end_month (open-ended when unset) and m falls inside
// the campaign range. One-time items occur only at their own start_month,
// never repeating across a multi-month overlap.
func ExpandOpexForCampaign(campaignStart, campaignEnd time.Time, items []OpexItem) []OpexRow {
	months := MonthRange(campaignStart, campaignEnd)

	var rows []OpexRow
	for _, item := range items {
		endMonth := openEndedMonth
		if item.EndMonth != nil {
			endMonth = *item.EndMonth
		}

		for _, m := range months {
			if m < item.StartMonth || m > endMonth {
				continue
			}
			if item.IsOneTime && m != item.StartMonth {
				continue
			}
			rows = append(rows, OpexRow{
				Month:     m,
				MonthNice: MonthLabelNice(m),
				OpexID:    item.ID,
				Name:      item.Name,
				Category:  item.Category,
				Cost:      item.Cost,
				IsOneTime: item.IsOneTime,
				Notes:     item.Notes,
			})
		}
	}
	return rows
}

// OpexMonthTable aggregates expanded opex rows into one opex_cost entry per
// month, sorted by month. No rows produce an empty (but typed) table.
func OpexMonthTable(rows []OpexRow) []OpexMonthRow {
	byMonth := make(map[string]decimal.Decimal)
	for _, r := range rows {
		byMonth[r.Month] = byMonth[r.Month].Add(r.Cost)
	}

	out := make([]OpexMonthRow, 0, len(byMonth))
	for m, cost := range byMonth {
		out = append(out, OpexMonthRow{Month: m, MonthNice: MonthLabelNice(m), OpexCost: cost})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
