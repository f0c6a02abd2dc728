package core_test

import (
	"testing"
	"time"

	"planboard/internal/core"
)

func strPtr(s string) *string { return &s }

func TestExpandOpexForCampaign(t *testing.T) {
	start, end := date(2026, time.January), date(2026, time.March)

	items := []core.OpexItem{
		{ID: "rent", Name: "Office Rent", Category: "Rent", Cost: dec("30000"), StartMonth: "2025-06"},
		{ID: "launch", Name: "Launch Event", Category: "Marketing", Cost: dec("50000"), StartMonth: "2026-02", IsOneTime: true},
		{ID: "intern", Name: "Intern Stipend", Category: "Salary", Cost: dec("8000"), StartMonth: "2026-02", EndMonth: strPtr("2026-02")},
		{ID: "old", Name: "Ended Tool", Category: "Software", Cost: dec("900"), StartMonth: "2025-01", EndMonth: strPtr("2025-12")},
		{ID: "future", Name: "Not Yet", Category: "Software", Cost: dec("500"), StartMonth: "2026-06"},
	}

	rows := core.ExpandOpexForCampaign(start, end, items)

	count := map[string]int{}
	for _, r := range rows {
		count[r.OpexID]++
	}
	if count["rent"] != 3 {
		t.Errorf("open-ended recurring item rows = %d, want 3", count["rent"])
	}
	if count["launch"] != 1 {
		t.Errorf("one-time item rows = %d, want 1", count["launch"])
	}
	if count["intern"] != 1 {
		t.Errorf("single-month windowed item rows = %d, want 1", count["intern"])
	}
	if count["old"] != 0 || count["future"] != 0 {
		t.Errorf("out-of-window items expanded: old=%d future=%d", count["old"], count["future"])
	}

	for _, r := range rows {
		if r.OpexID == "launch" && r.Month != "2026-02" {
			t.Errorf("one-time item landed in %s, want its own start month", r.Month)
		}
	}
}

func TestOpexMonthTable(t *testing.T) {
	start, end := date(2026, time.January), date(2026, time.February)
	items := []core.OpexItem{
		{ID: "rent", Name: "Office Rent", Cost: dec("30000"), StartMonth: "2025-06"},
		{ID: "ads", Name: "Always-on Ads", Cost: dec("12000"), StartMonth: "2026-02"},
	}

	table := core.OpexMonthTable(core.ExpandOpexForCampaign(start, end, items))
	if len(table) != 2 {
		t.Fatalf("expected 2 month rows, got %d", len(table))
	}
	if table[0].Month != "2026-01" || !table[0].OpexCost.Equal(dec("30000")) {
		t.Errorf("first month = %+v, want 2026-01 at 30000", table[0])
	}
	if table[1].Month != "2026-02" || !table[1].OpexCost.Equal(dec("42000")) {
		t.Errorf("second month = %+v, want 2026-02 at 42000", table[1])
	}
}

func TestOpexMonthTable_Empty(t *testing.T) {
	table := core.OpexMonthTable(nil)
	if table == nil || len(table) != 0 {
		t.Errorf("expected empty non-nil table, got %v", table)
	}
}
