// seed is a one-shot tool that loads a demo dataset: a small product
// catalogue, a campaign with quantities, and a few overhead items.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"planboard/internal/core"
	"planboard/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	products := core.NewProductService(pool)
	campaigns := core.NewCampaignService(pool)
	opex := core.NewOpexService(pool)

	inputs := []core.ProductInput{
		{
			Name: "Premium Panjabi", Category: "Panjabi",
			Price:             dec("2000"),
			ManufacturingCost: dec("800"), PackagingCost: dec("50"),
			ShippingCost: dec("70"), MarketingCost: dec("250"),
			DiscountRate: dec("0.10"), ReturnRate: dec("0.05"),
		},
		{
			Name: "Classic Kurta", Category: "Kurta",
			Price:             dec("1400"),
			ManufacturingCost: dec("550"), PackagingCost: dec("40"),
			ShippingCost: dec("60"), MarketingCost: dec("180"),
			DiscountRate: dec("0.05"), ReturnRate: dec("0.04"),
		},
		{
			Name: "Casual Shirt", Category: "Shirt",
			Price:             dec("1100"),
			ManufacturingCost: dec("420"), PackagingCost: dec("35"),
			ShippingCost: dec("55"), MarketingCost: dec("140"),
			DiscountRate: dec("0.08"), ReturnRate: dec("0.06"),
		},
	}

	quantities := core.Quantities{}
	for i, in := range inputs {
		p, err := products.CreateProduct(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create product %q: %v", in.Name, err)
		}
		quantities[p.ID] = decimal.NewFromInt(int64(300 - 100*i))
		log.Printf("created product %s (%s)", p.Name, p.ProductCode)
	}

	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	campaign, err := campaigns.CreateCampaign(ctx, core.CampaignInput{
		Name:             "Eid Collection 2026",
		StartDate:        start,
		EndDate:          start.AddDate(0, 2, 0),
		DistributionMode: core.DistFrontLoaded,
		Currency:         "BDT",
	})
	if err != nil {
		log.Fatalf("Failed to create campaign: %v", err)
	}
	if err := campaigns.ReplaceQuantities(ctx, campaign.ID, quantities); err != nil {
		log.Fatalf("Failed to set quantities: %v", err)
	}
	log.Printf("created campaign %s", campaign.Name)

	may := "2026-05"
	items := []core.OpexInput{
		{Name: "Office Rent", Category: "Rent", Cost: dec("30000"), StartMonth: "2026-01"},
		{Name: "Eid Photo Shoot", Category: "Marketing", Cost: dec("45000"), StartMonth: "2026-04", IsOneTime: true},
		{Name: "Seasonal Packers", Category: "Salary", Cost: dec("18000"), StartMonth: "2026-04", EndMonth: &may},
	}
	var opexIDs []string
	for _, in := range items {
		it, err := opex.CreateItem(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create opex item %q: %v", in.Name, err)
		}
		opexIDs = append(opexIDs, it.ID)
		log.Printf("created opex item %s", it.Name)
	}
	if err := opex.ReplaceCampaignLinks(ctx, campaign.ID, opexIDs); err != nil {
		log.Fatalf("Failed to link opex items: %v", err)
	}

	log.Println("Seed complete.")
}
