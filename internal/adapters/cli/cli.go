package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"planboard/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "products", "prod":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		printProducts(result)

	case "campaigns", "camp":
		result, err := svc.ListCampaigns(ctx)
		if err != nil {
			log.Fatalf("Failed to list campaigns: %v", err)
		}
		printCampaigns(result)

	case "forecast", "fc":
		campaign, err := resolveCampaign(ctx, svc, args[1:])
		if err != nil {
			log.Fatalf("Failed to resolve campaign: %v", err)
		}
		result, err := svc.GetCampaignForecast(ctx, campaign)
		if err != nil {
			log.Fatalf("Forecast failed: %v", err)
		}
		printForecast(result)

	case "opex":
		result, err := svc.ListOpexItems(ctx, false)
		if err != nil {
			log.Fatalf("Failed to list opex items: %v", err)
		}
		printOpex(result)

	case "scenarios", "sc":
		result, err := svc.ListScenarios(ctx)
		if err != nil {
			log.Fatalf("Failed to list scenarios: %v", err)
		}
		printScenarios(result)

	case "compare", "cmp":
		if len(args) < 2 {
			log.Fatal("Usage: app compare <scenario-id>")
		}
		result, err := svc.GetScenarioForecast(ctx, args[1], app.ScenarioComputeRequest{})
		if err != nil {
			log.Fatalf("Scenario forecast failed: %v", err)
		}
		printComparison(result)

	case "draft", "d":
		if len(args) < 2 {
			log.Fatal("Usage: app draft \"<what-if description>\"")
		}
		result, err := svc.DraftScenario(ctx, args[1])
		if err != nil {
			log.Fatalf("Advisor error: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Draft)

	case "export":
		if len(args) < 2 {
			log.Fatal("Usage: app export <products|opex|campaign [id]|scenario <id>>")
		}
		runExport(ctx, svc, args[1:])

	default:
		log.Fatalf("Unknown command: %s\nAvailable: products, campaigns, forecast, opex, scenarios, compare, draft, export", args[0])
	}
}

// resolveCampaign returns the explicitly named campaign id, or the current
// campaign when none is given.
func resolveCampaign(ctx context.Context, svc app.ApplicationService, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	c, err := svc.CurrentCampaign(ctx)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func runExport(ctx context.Context, svc app.ApplicationService, args []string) {
	var result *app.ExportResult
	var err error

	switch args[0] {
	case "products":
		result, err = svc.ExportProductMaster(ctx)
	case "opex":
		result, err = svc.ExportOpexMaster(ctx)
	case "campaign":
		var id string
		id, err = resolveCampaign(ctx, svc, args[1:])
		if err == nil {
			result, err = svc.ExportCampaignWorkbook(ctx, id)
		}
	case "scenario":
		if len(args) < 2 {
			log.Fatal("Usage: app export scenario <scenario-id>")
		}
		result, err = svc.ExportScenarioComparison(ctx, args[1])
	default:
		log.Fatalf("Unknown export target: %s", args[0])
	}
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	if err := os.WriteFile(result.Filename, result.Data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", result.Filename, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", result.Filename, len(result.Data))
}

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 92))
	fmt.Printf("  %-88s\n", "PRODUCT CATALOGUE")
	fmt.Println(strings.Repeat("=", 92))
	fmt.Printf("  %-16s %-26s %-12s %10s %10s %10s\n", "CODE", "NAME", "CATEGORY", "PRICE", "EFF PRICE", "NET/UNIT")
	fmt.Println(strings.Repeat("-", 92))
	for _, p := range result.Products {
		fmt.Printf("  %-16s %-26s %-12s %10s %10s %10s\n",
			p.ProductCode, p.Name, p.Category,
			p.Price.StringFixed(2), p.EffectivePrice().StringFixed(2), p.UnitNetProfit().StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 92))
}

func printCampaigns(result *app.CampaignListResult) {
	fmt.Println()
	fmt.Printf("  %-38s %-24s %-12s %-12s %s\n", "ID", "NAME", "START", "END", "MODE")
	fmt.Println(strings.Repeat("-", 100))
	for _, c := range result.Campaigns {
		fmt.Printf("  %-38s %-24s %-12s %-12s %s\n",
			c.ID, c.Name, c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"), c.DistributionMode)
	}
}

func printForecast(result *app.ForecastResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("  FORECAST — %s (%s to %s, %s)\n",
		result.Campaign.Name,
		result.Campaign.StartDate.Format("Jan 2006"),
		result.Campaign.EndDate.Format("Jan 2006"),
		result.Campaign.DistributionMode)
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("  %-10s %-26s %10s %14s %14s %14s\n", "MONTH", "PRODUCT", "QTY", "EFF REVENUE", "COST", "NET PROFIT")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range result.MonthlyRows {
		fmt.Printf("  %-10s %-26s %10s %14s %14s %14s\n",
			r.MonthNice, r.ProductName,
			r.Qty.StringFixed(1), r.EffectiveRevenue.StringFixed(2), r.TotalCost.StringFixed(2), r.NetProfit.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("  %-37s %10s %14s %14s %14s\n", "TOTAL",
		result.Totals.CampaignQty.StringFixed(1),
		result.Totals.EffectiveRevenue.StringFixed(2),
		result.Totals.TotalCost.StringFixed(2),
		result.Totals.NetProfit.StringFixed(2))
	fmt.Printf("  %-37s %54s\n", "OPEX TOTAL", result.OpexTotal.StringFixed(2))
	fmt.Printf("  %-37s %54s\n", "NET PROFIT AFTER OPEX", result.NetProfitAfterOpex.StringFixed(2))
	fmt.Println(strings.Repeat("=", 100))
	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}
}

func printOpex(result *app.OpexListResult) {
	fmt.Println()
	fmt.Printf("  %-26s %-14s %12s %-10s %-10s %-10s\n", "NAME", "CATEGORY", "COST", "TYPE", "START", "END")
	fmt.Println(strings.Repeat("-", 90))
	for _, it := range result.Items {
		kind := "recurring"
		if it.IsOneTime {
			kind = "one-time"
		}
		end := "open"
		if it.EndMonth != nil {
			end = *it.EndMonth
		}
		fmt.Printf("  %-26s %-14s %12s %-10s %-10s %-10s\n",
			it.Name, it.Category, it.Cost.StringFixed(2), kind, it.StartMonth, end)
	}
}

func printScenarios(result *app.ScenarioListResult) {
	fmt.Println()
	fmt.Printf("  %-38s %-28s %s\n", "ID", "NAME", "DESCRIPTION")
	fmt.Println(strings.Repeat("-", 100))
	for _, sc := range result.Scenarios {
		fmt.Printf("  %-38s %-28s %s\n", sc.ID, sc.Name, sc.Description)
	}
}

func printComparison(result *app.ScenarioForecastResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 84))
	fmt.Printf("  SCENARIO — %s (base: %s)\n", result.Scenario.Name, result.Campaign.Name)
	fmt.Println(strings.Repeat("=", 84))
	fmt.Printf("  %-26s %16s %16s %16s\n", "METRIC", "BASE", "SCENARIO", "DELTA")
	fmt.Println(strings.Repeat("-", 84))
	print3 := func(label string, b, s fmt.Stringer, delta string) {
		fmt.Printf("  %-26s %16s %16s %16s\n", label, b, s, delta)
	}
	bt, st := result.BaseTotals, result.ScenarioTotals
	print3("Campaign Qty", bt.CampaignQty, st.CampaignQty, result.Delta.CampaignQty.StringFixed(1))
	print3("Effective Revenue", bt.EffectiveRevenue, st.EffectiveRevenue, result.Delta.EffectiveRevenue.StringFixed(2))
	print3("Opex Total", bt.OpexTotal, st.OpexTotal, st.OpexTotal.Sub(bt.OpexTotal).StringFixed(2))
	print3("Net Profit After Opex", bt.NetProfitAfterOpex, st.NetProfitAfterOpex, result.Delta.NetProfitAfterOpex.StringFixed(2))
	fmt.Println(strings.Repeat("=", 84))
}
