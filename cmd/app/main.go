package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"planboard/internal/adapters/cli"
	"planboard/internal/ai"
	"planboard/internal/app"
	"planboard/internal/core"
	"planboard/internal/db"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: app <command> [args]

Commands:
  products              list the product catalogue with unit economics
  campaigns             list campaigns
  forecast [id]         print the forecast for a campaign (default: current)
  opex                  list overhead items
  scenarios             list saved scenarios
  compare <id>          print a scenario next to its base campaign
  draft "<text>"        ask the advisor for a what-if override proposal
  export <target>       write an xlsx workbook (products, opex, campaign, scenario)`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	productService := core.NewProductService(pool)
	campaignService := core.NewCampaignService(pool)
	opexService := core.NewOpexService(pool)
	scenarioService := core.NewScenarioService(pool)
	settingsService := core.NewSettingsService(pool)

	var advisor ai.AdvisorService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		advisor = ai.NewAdvisor(apiKey)
	}

	svc := app.NewAppService(productService, campaignService, opexService, scenarioService, settingsService, advisor)
	cli.Run(ctx, svc, os.Args[1:])
}
