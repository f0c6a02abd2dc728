// Package reports renders planning data as xlsx workbooks.
package reports

import (
	"fmt"

	"planboard/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CampaignSheetData is everything the campaign workbook renders.
type CampaignSheetData struct {
	Campaign           core.Campaign
	MonthlyRows        []core.MonthlyRow
	Summary            []core.ProductSummaryRow
	SizeRows           []core.SizeRow
	OpexMonths         []core.OpexMonthRow
	Totals             core.Totals
	OpexTotal          decimal.Decimal
	NetProfitAfterOpex decimal.Decimal
}

// ComparisonSheetData is everything the scenario comparison workbook renders.
type ComparisonSheetData struct {
	Scenario        core.Scenario
	Campaign        core.Campaign
	BaseTotals      core.ScenarioTotals
	ScenarioTotals  core.ScenarioTotals
	BaseSummary     []core.ProductSummaryRow
	ScenarioSummary []core.ProductSummaryRow
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func setColWidths(f *excelize.File, sheet string, widths []float64) {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

// num converts a decimal to the float64 cell value excelize expects.
// Spreadsheet cells are display output, so the float rounding is acceptable.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ProductMaster renders the product catalogue with derived unit economics.
func ProductMaster(products []core.Product) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	bold := headerStyle(f)
	writeHeaders(f, sheet, []string{
		"Code", "Name", "Category", "Price", "Mfg Cost", "Packaging", "Shipping",
		"Marketing", "Discount", "Return Rate", "Effective Price", "Total Unit Cost",
		"Unit Net Profit", "Net Margin %", "Notes",
	}, bold)

	for i, p := range products {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.ProductCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), num(p.Price))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), num(p.ManufacturingCost))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), num(p.PackagingCost))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), num(p.ShippingCost))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), num(p.MarketingCost))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), num(p.DiscountRate))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), num(p.ReturnRate))
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), num(p.EffectivePrice()))
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), num(p.TotalUnitCost()))
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), num(p.UnitNetProfit()))
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), num(p.NetMargin().Mul(decimal.NewFromInt(100))))
		f.SetCellValue(sheet, fmt.Sprintf("O%d", row), p.Notes)
	}

	setColWidths(f, sheet, []float64{16, 24, 14, 10, 10, 10, 10, 10, 10, 10, 14, 14, 14, 12, 24})
	return workbookBytes(f)
}

// OpexMaster renders the overhead catalogue.
func OpexMaster(items []core.OpexItem) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Opex"
	f.SetSheetName("Sheet1", sheet)

	bold := headerStyle(f)
	writeHeaders(f, sheet, []string{
		"Name", "Category", "Cost", "Type", "Start Month", "End Month", "Active", "Notes",
	}, bold)

	for i, it := range items {
		row := i + 2
		kind := "Recurring"
		if it.IsOneTime {
			kind = "One-time"
		}
		endMonth := "open-ended"
		if it.EndMonth != nil {
			endMonth = *it.EndMonth
		}
		active := "No"
		if it.IsActive {
			active = "Yes"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), num(it.Cost))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), kind)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), it.StartMonth)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), endMonth)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), active)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), it.Notes)
	}

	setColWidths(f, sheet, []float64{24, 14, 12, 10, 12, 12, 8, 24})
	return workbookBytes(f)
}

// CampaignWorkbook renders a campaign's forecast across four sheets:
// monthly rows, per-product summary, size split and the opex overlay.
func CampaignWorkbook(data CampaignSheetData) ([]byte, error) {
	f := excelize.NewFile()
	bold := headerStyle(f)
	boldOnly, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	monthly := "Monthly Forecast"
	f.SetSheetName("Sheet1", monthly)
	writeHeaders(f, monthly, []string{
		"Month", "Product", "Category", "Qty", "Price", "Effective Price",
		"Gross Revenue", "Effective Revenue", "Total Cost", "Net Profit",
	}, bold)
	for i, r := range data.MonthlyRows {
		row := i + 2
		f.SetCellValue(monthly, fmt.Sprintf("A%d", row), r.MonthNice)
		f.SetCellValue(monthly, fmt.Sprintf("B%d", row), r.ProductName)
		f.SetCellValue(monthly, fmt.Sprintf("C%d", row), r.Category)
		f.SetCellValue(monthly, fmt.Sprintf("D%d", row), num(r.Qty))
		f.SetCellValue(monthly, fmt.Sprintf("E%d", row), num(r.Price))
		f.SetCellValue(monthly, fmt.Sprintf("F%d", row), num(r.EffectivePrice))
		f.SetCellValue(monthly, fmt.Sprintf("G%d", row), num(r.GrossRevenue))
		f.SetCellValue(monthly, fmt.Sprintf("H%d", row), num(r.EffectiveRevenue))
		f.SetCellValue(monthly, fmt.Sprintf("I%d", row), num(r.TotalCost))
		f.SetCellValue(monthly, fmt.Sprintf("J%d", row), num(r.NetProfit))
	}
	totalRow := len(data.MonthlyRows) + 2
	f.SetCellValue(monthly, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(monthly, fmt.Sprintf("D%d", totalRow), num(data.Totals.CampaignQty))
	f.SetCellValue(monthly, fmt.Sprintf("G%d", totalRow), num(data.Totals.GrossRevenue))
	f.SetCellValue(monthly, fmt.Sprintf("H%d", totalRow), num(data.Totals.EffectiveRevenue))
	f.SetCellValue(monthly, fmt.Sprintf("I%d", totalRow), num(data.Totals.TotalCost))
	f.SetCellValue(monthly, fmt.Sprintf("J%d", totalRow), num(data.Totals.NetProfit))
	f.SetCellStyle(monthly, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("J%d", totalRow), boldOnly)
	setColWidths(f, monthly, []float64{12, 24, 14, 10, 10, 14, 14, 16, 12, 12})

	summary := "Product Summary"
	f.NewSheet(summary)
	writeHeaders(f, summary, []string{
		"Product", "Category", "Campaign Qty", "Gross Revenue", "Effective Revenue",
		"Total Cost", "Net Profit", "Gross Margin %", "Net Margin %",
	}, bold)
	for i, r := range data.Summary {
		row := i + 2
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), r.ProductName)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), r.Category)
		f.SetCellValue(summary, fmt.Sprintf("C%d", row), num(r.CampaignQty))
		f.SetCellValue(summary, fmt.Sprintf("D%d", row), num(r.GrossRevenue))
		f.SetCellValue(summary, fmt.Sprintf("E%d", row), num(r.EffectiveRevenue))
		f.SetCellValue(summary, fmt.Sprintf("F%d", row), num(r.TotalCost))
		f.SetCellValue(summary, fmt.Sprintf("G%d", row), num(r.NetProfit))
		f.SetCellValue(summary, fmt.Sprintf("H%d", row), num(r.GrossMarginPct))
		f.SetCellValue(summary, fmt.Sprintf("I%d", row), num(r.NetMarginPct))
	}
	setColWidths(f, summary, []float64{24, 14, 12, 14, 16, 12, 12, 14, 12})

	if len(data.SizeRows) > 0 {
		sizes := "Size Breakdown"
		f.NewSheet(sizes)
		writeHeaders(f, sizes, []string{
			"Product", "Size", "Qty", "Gross Revenue", "Effective Revenue", "Total Cost", "Net Profit",
		}, bold)
		for i, r := range data.SizeRows {
			row := i + 2
			f.SetCellValue(sizes, fmt.Sprintf("A%d", row), r.ProductName)
			f.SetCellValue(sizes, fmt.Sprintf("B%d", row), r.Size)
			f.SetCellValue(sizes, fmt.Sprintf("C%d", row), num(r.Qty))
			f.SetCellValue(sizes, fmt.Sprintf("D%d", row), num(r.GrossRevenue))
			f.SetCellValue(sizes, fmt.Sprintf("E%d", row), num(r.EffectiveRevenue))
			f.SetCellValue(sizes, fmt.Sprintf("F%d", row), num(r.TotalCost))
			f.SetCellValue(sizes, fmt.Sprintf("G%d", row), num(r.NetProfit))
		}
		setColWidths(f, sizes, []float64{24, 8, 10, 14, 16, 12, 12})
	}

	opex := "Opex"
	f.NewSheet(opex)
	writeHeaders(f, opex, []string{"Month", "Opex Cost"}, bold)
	for i, r := range data.OpexMonths {
		row := i + 2
		f.SetCellValue(opex, fmt.Sprintf("A%d", row), r.MonthNice)
		f.SetCellValue(opex, fmt.Sprintf("B%d", row), num(r.OpexCost))
	}
	opexTotalRow := len(data.OpexMonths) + 2
	f.SetCellValue(opex, fmt.Sprintf("A%d", opexTotalRow), "Total Opex")
	f.SetCellValue(opex, fmt.Sprintf("B%d", opexTotalRow), num(data.OpexTotal))
	f.SetCellValue(opex, fmt.Sprintf("A%d", opexTotalRow+1), "Net Profit After Opex")
	f.SetCellValue(opex, fmt.Sprintf("B%d", opexTotalRow+1), num(data.NetProfitAfterOpex))
	f.SetCellStyle(opex, fmt.Sprintf("A%d", opexTotalRow), fmt.Sprintf("B%d", opexTotalRow+1), boldOnly)
	setColWidths(f, opex, []float64{14, 14})

	return workbookBytes(f)
}

var comparisonMetrics = []struct {
	label string
	pick  func(core.ScenarioTotals) decimal.Decimal
}{
	{"Campaign Qty", func(t core.ScenarioTotals) decimal.Decimal { return t.CampaignQty }},
	{"Gross Revenue", func(t core.ScenarioTotals) decimal.Decimal { return t.GrossRevenue }},
	{"Effective Revenue", func(t core.ScenarioTotals) decimal.Decimal { return t.EffectiveRevenue }},
	{"Total Cost", func(t core.ScenarioTotals) decimal.Decimal { return t.TotalCost }},
	{"Net Profit (pre-OPEX)", func(t core.ScenarioTotals) decimal.Decimal { return t.NetProfitVariable }},
	{"Opex Total", func(t core.ScenarioTotals) decimal.Decimal { return t.OpexTotal }},
	{"Net Profit After Opex", func(t core.ScenarioTotals) decimal.Decimal { return t.NetProfitAfterOpex }},
}

// ScenarioComparison renders base-vs-scenario totals plus the two
// per-product summaries.
func ScenarioComparison(data ComparisonSheetData) ([]byte, error) {
	f := excelize.NewFile()
	bold := headerStyle(f)

	sheet := "Comparison"
	f.SetSheetName("Sheet1", sheet)
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Scenario: %s", data.Scenario.Name))
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Base campaign: %s", data.Campaign.Name))

	headerRow := 4
	for i, h := range []string{"Metric", "Base", "Scenario", "Delta"} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}
	for i, m := range comparisonMetrics {
		row := headerRow + 1 + i
		baseV := m.pick(data.BaseTotals)
		scV := m.pick(data.ScenarioTotals)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), num(baseV))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), num(scV))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), num(scV.Sub(baseV)))
	}
	setColWidths(f, sheet, []float64{24, 16, 16, 16})

	writeSummarySheet := func(name string, rows []core.ProductSummaryRow) {
		f.NewSheet(name)
		writeHeaders(f, name, []string{
			"Product", "Campaign Qty", "Effective Revenue", "Total Cost", "Net Profit", "Net Margin %",
		}, bold)
		for i, r := range rows {
			row := i + 2
			f.SetCellValue(name, fmt.Sprintf("A%d", row), r.ProductName)
			f.SetCellValue(name, fmt.Sprintf("B%d", row), num(r.CampaignQty))
			f.SetCellValue(name, fmt.Sprintf("C%d", row), num(r.EffectiveRevenue))
			f.SetCellValue(name, fmt.Sprintf("D%d", row), num(r.TotalCost))
			f.SetCellValue(name, fmt.Sprintf("E%d", row), num(r.NetProfit))
			f.SetCellValue(name, fmt.Sprintf("F%d", row), num(r.NetMarginPct))
		}
		setColWidths(f, name, []float64{24, 12, 16, 12, 12, 12})
	}
	writeSummarySheet("Base Products", data.BaseSummary)
	writeSummarySheet("Scenario Products", data.ScenarioSummary)

	return workbookBytes(f)
}
