package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"planboard/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE scenario_fx, scenario_opex, scenario_products, scenario_campaign_links,
			scenarios, campaign_opex, opex_items, campaign_size_breakdown,
			campaign_month_weights, campaign_quantities, campaigns, products,
			fx_rates, app_settings CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func testProductInput(name string) core.ProductInput {
	return core.ProductInput{
		Name:              name,
		Category:          "Panjabi",
		Price:             decimal.NewFromInt(2000),
		ManufacturingCost: decimal.NewFromInt(800),
		PackagingCost:     decimal.NewFromInt(50),
		ShippingCost:      decimal.NewFromInt(70),
		MarketingCost:     decimal.NewFromInt(250),
		ReturnRate:        decimal.NewFromFloat(0.05),
		DiscountRate:      decimal.NewFromFloat(0.10),
	}
}

func testCampaignInput(name string) core.CampaignInput {
	return core.CampaignInput{
		Name:             name,
		StartDate:        time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		DistributionMode: core.DistUniform,
		Currency:         "BDT",
	}
}

func TestProductService_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewProductService(pool)

	created, err := svc.CreateProduct(ctx, testProductInput("Premium Panjabi"))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected created product to have an id")
	}
	if created.ProductCode == "" {
		t.Error("Expected a generated product code")
	}

	t.Run("get returns stored values", func(t *testing.T) {
		got, err := svc.GetProduct(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetProduct failed: %v", err)
		}
		if got.Name != "Premium Panjabi" {
			t.Errorf("Expected name 'Premium Panjabi', got %q", got.Name)
		}
		if !got.Price.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("Expected price 2000, got %s", got.Price)
		}
	})

	t.Run("update changes fields", func(t *testing.T) {
		in := testProductInput("Premium Panjabi")
		in.Price = decimal.NewFromInt(2200)
		updated, err := svc.UpdateProduct(ctx, created.ID, in)
		if err != nil {
			t.Fatalf("UpdateProduct failed: %v", err)
		}
		if !updated.Price.Equal(decimal.NewFromInt(2200)) {
			t.Errorf("Expected price 2200 after update, got %s", updated.Price)
		}
	})

	t.Run("invalid input is rejected", func(t *testing.T) {
		in := testProductInput("")
		_, err := svc.CreateProduct(ctx, in)
		var verr *core.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("delete hides from list", func(t *testing.T) {
		second, err := svc.CreateProduct(ctx, testProductInput("Classic Kurta"))
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if err := svc.DeleteProduct(ctx, second.ID); err != nil {
			t.Fatalf("DeleteProduct failed: %v", err)
		}
		products, err := svc.ListProducts(ctx)
		if err != nil {
			t.Fatalf("ListProducts failed: %v", err)
		}
		for _, p := range products {
			if p.ID == second.ID {
				t.Error("Expected deleted product to be absent from list")
			}
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		missing := uuid.NewString()
		if _, err := svc.GetProduct(ctx, missing); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound from GetProduct, got %v", err)
		}
		if err := svc.DeleteProduct(ctx, missing); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound from DeleteProduct, got %v", err)
		}
	})
}

func TestCampaignService_ChildCollections(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	products := core.NewProductService(pool)
	campaigns := core.NewCampaignService(pool)

	p1, err := products.CreateProduct(ctx, testProductInput("Premium Panjabi"))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	p2, err := products.CreateProduct(ctx, testProductInput("Classic Kurta"))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	camp, err := campaigns.CreateCampaign(ctx, testCampaignInput("Eid Collection 2026"))
	if err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}

	t.Run("quantities replace-set drops non-positive rows", func(t *testing.T) {
		err := campaigns.ReplaceQuantities(ctx, camp.ID, core.Quantities{
			p1.ID: decimal.NewFromInt(300),
			p2.ID: decimal.Zero,
		})
		if err != nil {
			t.Fatalf("ReplaceQuantities failed: %v", err)
		}
		got, err := campaigns.Quantities(ctx, camp.ID)
		if err != nil {
			t.Fatalf("Quantities failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Expected 1 quantity row, got %d", len(got))
		}
		if !got[p1.ID].Equal(decimal.NewFromInt(300)) {
			t.Errorf("Expected qty 300, got %s", got[p1.ID])
		}
	})

	t.Run("quantities replace-set removes stale rows", func(t *testing.T) {
		err := campaigns.ReplaceQuantities(ctx, camp.ID, core.Quantities{
			p2.ID: decimal.NewFromInt(150),
		})
		if err != nil {
			t.Fatalf("ReplaceQuantities failed: %v", err)
		}
		got, err := campaigns.Quantities(ctx, camp.ID)
		if err != nil {
			t.Fatalf("Quantities failed: %v", err)
		}
		if _, ok := got[p1.ID]; ok {
			t.Error("Expected old quantity row to be gone after replace")
		}
		if !got[p2.ID].Equal(decimal.NewFromInt(150)) {
			t.Errorf("Expected qty 150, got %s", got[p2.ID])
		}
	})

	t.Run("month weights skip negatives", func(t *testing.T) {
		err := campaigns.ReplaceMonthWeights(ctx, camp.ID, core.MonthWeights{
			"2026-04": 0.6,
			"2026-05": -1,
			"2026-06": 0.4,
		})
		if err != nil {
			t.Fatalf("ReplaceMonthWeights failed: %v", err)
		}
		got, err := campaigns.MonthWeights(ctx, camp.ID)
		if err != nil {
			t.Fatalf("MonthWeights failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 weight rows, got %d", len(got))
		}
		if got["2026-04"] != 0.6 {
			t.Errorf("Expected weight 0.6 for 2026-04, got %v", got["2026-04"])
		}
	})

	t.Run("per-product weights round trip", func(t *testing.T) {
		err := campaigns.ReplaceProductMonthWeights(ctx, camp.ID, core.ProductMonthWeights{
			p1.ID: {"2026-04": 1, "2026-05": 2},
		})
		if err != nil {
			t.Fatalf("ReplaceProductMonthWeights failed: %v", err)
		}
		got, err := campaigns.ProductMonthWeights(ctx, camp.ID)
		if err != nil {
			t.Fatalf("ProductMonthWeights failed: %v", err)
		}
		if got[p1.ID]["2026-05"] != 2 {
			t.Errorf("Expected weight 2 for %s 2026-05, got %v", p1.ID, got[p1.ID]["2026-05"])
		}
	})

	t.Run("size breakdown round trip", func(t *testing.T) {
		err := campaigns.ReplaceSizeBreakdown(ctx, camp.ID, core.SizeBreakdown{
			p1.ID: {
				"M": decimal.NewFromInt(40),
				"L": decimal.NewFromInt(60),
			},
		})
		if err != nil {
			t.Fatalf("ReplaceSizeBreakdown failed: %v", err)
		}
		got, err := campaigns.SizeBreakdown(ctx, camp.ID)
		if err != nil {
			t.Fatalf("SizeBreakdown failed: %v", err)
		}
		if !got[p1.ID]["L"].Equal(decimal.NewFromInt(60)) {
			t.Errorf("Expected 60 units of L, got %s", got[p1.ID]["L"])
		}
	})

	t.Run("full data bundles all collections", func(t *testing.T) {
		data, err := campaigns.FullData(ctx, camp.ID)
		if err != nil {
			t.Fatalf("FullData failed: %v", err)
		}
		if data.Campaign.ID != camp.ID {
			t.Errorf("Expected campaign %s, got %s", camp.ID, data.Campaign.ID)
		}
		if len(data.Quantities) != 1 || len(data.MonthWeights) != 2 {
			t.Errorf("Expected 1 quantity and 2 weights, got %d and %d",
				len(data.Quantities), len(data.MonthWeights))
		}
		if len(data.SizeBreakdown[p1.ID]) != 2 {
			t.Errorf("Expected 2 size rows, got %d", len(data.SizeBreakdown[p1.ID]))
		}
	})
}

func TestCampaignService_LatestOrCreateDefault(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	campaigns := core.NewCampaignService(pool)

	first, err := campaigns.LatestOrCreateDefault(ctx)
	if err != nil {
		t.Fatalf("LatestOrCreateDefault failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("Expected a lazily created campaign")
	}

	again, err := campaigns.LatestOrCreateDefault(ctx)
	if err != nil {
		t.Fatalf("LatestOrCreateDefault failed on second call: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("Expected same campaign on second call, got %s and %s", first.ID, again.ID)
	}
}

func TestOpexService_LibraryAndLinks(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	campaigns := core.NewCampaignService(pool)
	opex := core.NewOpexService(pool)

	camp, err := campaigns.CreateCampaign(ctx, testCampaignInput("Eid Collection 2026"))
	if err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}

	rent, err := opex.CreateItem(ctx, core.OpexInput{
		Name:       "Office Rent",
		Category:   "Facilities",
		Cost:       decimal.NewFromInt(30000),
		StartMonth: "2026-01",
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	shoot, err := opex.CreateItem(ctx, core.OpexInput{
		Name:       "Eid Photo Shoot",
		Category:   "Marketing",
		Cost:       decimal.NewFromInt(50000),
		StartMonth: "2026-04",
		IsOneTime:  true,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	t.Run("active filter hides deleted items", func(t *testing.T) {
		retired, err := opex.CreateItem(ctx, core.OpexInput{
			Name:       "Old Warehouse",
			Category:   "Facilities",
			Cost:       decimal.NewFromInt(12000),
			StartMonth: "2025-01",
		})
		if err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if err := opex.DeleteItem(ctx, retired.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		active, err := opex.ListItems(ctx, true)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(active) != 2 {
			t.Errorf("Expected 2 active items, got %d", len(active))
		}
		all, err := opex.ListItems(ctx, false)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("Expected 3 items without filter, got %d", len(all))
		}
	})

	t.Run("list by ids drops unknown ids", func(t *testing.T) {
		items, err := opex.ListItemsByIDs(ctx, []string{rent.ID, uuid.NewString()})
		if err != nil {
			t.Fatalf("ListItemsByIDs failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != rent.ID {
			t.Errorf("Expected only the rent item, got %d items", len(items))
		}
	})

	t.Run("campaign links replace-set", func(t *testing.T) {
		if err := opex.ReplaceCampaignLinks(ctx, camp.ID, []string{rent.ID, shoot.ID}); err != nil {
			t.Fatalf("ReplaceCampaignLinks failed: %v", err)
		}
		ids, err := opex.CampaignLinks(ctx, camp.ID)
		if err != nil {
			t.Fatalf("CampaignLinks failed: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("Expected 2 links, got %d", len(ids))
		}

		if err := opex.ReplaceCampaignLinks(ctx, camp.ID, []string{shoot.ID}); err != nil {
			t.Fatalf("ReplaceCampaignLinks failed: %v", err)
		}
		ids, err = opex.CampaignLinks(ctx, camp.ID)
		if err != nil {
			t.Fatalf("CampaignLinks failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != shoot.ID {
			t.Errorf("Expected only the shoot link to remain, got %v", ids)
		}
	})
}

func TestScenarioService_OverridesAndDuplicate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	products := core.NewProductService(pool)
	campaigns := core.NewCampaignService(pool)
	opex := core.NewOpexService(pool)
	scenarios := core.NewScenarioService(pool)

	product, err := products.CreateProduct(ctx, testProductInput("Premium Panjabi"))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	camp, err := campaigns.CreateCampaign(ctx, testCampaignInput("Eid Collection 2026"))
	if err != nil {
		t.Fatalf("CreateCampaign failed: %v", err)
	}
	rent, err := opex.CreateItem(ctx, core.OpexInput{
		Name:       "Office Rent",
		Category:   "Facilities",
		Cost:       decimal.NewFromInt(30000),
		StartMonth: "2026-01",
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	sc, err := scenarios.CreateScenario(ctx, "Aggressive Pricing", "price up, discount down")
	if err != nil {
		t.Fatalf("CreateScenario failed: %v", err)
	}

	if err := scenarios.LinkToCampaign(ctx, sc.ID, camp.ID); err != nil {
		t.Fatalf("LinkToCampaign failed: %v", err)
	}

	price := decimal.NewFromInt(2200)
	qty := decimal.NewFromInt(120)
	err = scenarios.ReplaceProductOverrides(ctx, sc.ID, []core.ProductOverride{
		{ProductID: product.ID, PriceOverride: &price, QtyOverride: &qty},
	})
	if err != nil {
		t.Fatalf("ReplaceProductOverrides failed: %v", err)
	}
	rentCut := decimal.NewFromInt(25000)
	err = scenarios.ReplaceOpexOverrides(ctx, sc.ID, []core.OpexOverride{
		{OpexItemID: rent.ID, CostOverride: &rentCut},
	})
	if err != nil {
		t.Fatalf("ReplaceOpexOverrides failed: %v", err)
	}
	err = scenarios.ReplaceFxOverrides(ctx, sc.ID, []core.FxOverride{
		{Currency: "USD", Rate: decimal.NewFromInt(120)},
	})
	if err != nil {
		t.Fatalf("ReplaceFxOverrides failed: %v", err)
	}

	t.Run("base campaign resolves through link", func(t *testing.T) {
		id, err := scenarios.BaseCampaignID(ctx, sc.ID)
		if err != nil {
			t.Fatalf("BaseCampaignID failed: %v", err)
		}
		if id != camp.ID {
			t.Errorf("Expected campaign %s, got %s", camp.ID, id)
		}
	})

	t.Run("unlinked scenario has no base campaign", func(t *testing.T) {
		lonely, err := scenarios.CreateScenario(ctx, "Unlinked", "")
		if err != nil {
			t.Fatalf("CreateScenario failed: %v", err)
		}
		if _, err := scenarios.BaseCampaignID(ctx, lonely.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate copies every layer", func(t *testing.T) {
		dup, err := scenarios.DuplicateScenario(ctx, sc.ID, "Aggressive Pricing (copy)")
		if err != nil {
			t.Fatalf("DuplicateScenario failed: %v", err)
		}
		if dup.ID == sc.ID {
			t.Fatal("Expected duplicate to get a new id")
		}
		if dup.Name != "Aggressive Pricing (copy)" {
			t.Errorf("Expected new name on duplicate, got %q", dup.Name)
		}

		prodOv, err := scenarios.ProductOverrides(ctx, dup.ID)
		if err != nil {
			t.Fatalf("ProductOverrides failed: %v", err)
		}
		if len(prodOv) != 1 {
			t.Fatalf("Expected 1 copied product override, got %d", len(prodOv))
		}
		if prodOv[0].PriceOverride == nil || !prodOv[0].PriceOverride.Equal(price) {
			t.Errorf("Expected copied price override %s, got %v", price, prodOv[0].PriceOverride)
		}

		opexOv, err := scenarios.OpexOverrides(ctx, dup.ID)
		if err != nil {
			t.Fatalf("OpexOverrides failed: %v", err)
		}
		if len(opexOv) != 1 {
			t.Fatalf("Expected 1 copied opex override, got %d", len(opexOv))
		}

		fxOv, err := scenarios.FxOverrides(ctx, dup.ID)
		if err != nil {
			t.Fatalf("FxOverrides failed: %v", err)
		}
		if len(fxOv) != 1 || fxOv[0].Currency != "USD" {
			t.Errorf("Expected copied USD fx override, got %v", fxOv)
		}

		baseID, err := scenarios.BaseCampaignID(ctx, dup.ID)
		if err != nil {
			t.Fatalf("BaseCampaignID on duplicate failed: %v", err)
		}
		if baseID != camp.ID {
			t.Errorf("Expected duplicate to keep campaign link %s, got %s", camp.ID, baseID)
		}
	})

	t.Run("duplicate of missing scenario is not found", func(t *testing.T) {
		if _, err := scenarios.DuplicateScenario(ctx, uuid.NewString(), "ghost"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("replace-set clears overrides", func(t *testing.T) {
		if err := scenarios.ReplaceProductOverrides(ctx, sc.ID, nil); err != nil {
			t.Fatalf("ReplaceProductOverrides failed: %v", err)
		}
		prodOv, err := scenarios.ProductOverrides(ctx, sc.ID)
		if err != nil {
			t.Fatalf("ProductOverrides failed: %v", err)
		}
		if len(prodOv) != 0 {
			t.Errorf("Expected overrides cleared, got %d", len(prodOv))
		}
	})

	t.Run("delete removes scenario", func(t *testing.T) {
		if err := scenarios.DeleteScenario(ctx, sc.ID); err != nil {
			t.Fatalf("DeleteScenario failed: %v", err)
		}
		if _, err := scenarios.GetScenario(ctx, sc.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := scenarios.DeleteScenario(ctx, sc.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on double delete, got %v", err)
		}
	})
}

func TestSettingsService_CurrencyAndFx(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	settings := core.NewSettingsService(pool)

	t.Run("display currency defaults to BDT", func(t *testing.T) {
		currency, err := settings.DisplayCurrency(ctx)
		if err != nil {
			t.Fatalf("DisplayCurrency failed: %v", err)
		}
		if currency != "BDT" {
			t.Errorf("Expected default BDT, got %q", currency)
		}
	})

	t.Run("set and read display currency", func(t *testing.T) {
		if err := settings.SetDisplayCurrency(ctx, "USD"); err != nil {
			t.Fatalf("SetDisplayCurrency failed: %v", err)
		}
		currency, err := settings.DisplayCurrency(ctx)
		if err != nil {
			t.Fatalf("DisplayCurrency failed: %v", err)
		}
		if currency != "USD" {
			t.Errorf("Expected USD, got %q", currency)
		}
	})

	t.Run("fx upsert inserts then updates", func(t *testing.T) {
		if err := settings.UpsertFxRate(ctx, "USD", decimal.NewFromInt(117)); err != nil {
			t.Fatalf("UpsertFxRate failed: %v", err)
		}
		rate, err := settings.FxRate(ctx, "USD")
		if err != nil {
			t.Fatalf("FxRate failed: %v", err)
		}
		if !rate.Equal(decimal.NewFromInt(117)) {
			t.Errorf("Expected rate 117, got %s", rate)
		}

		if err := settings.UpsertFxRate(ctx, "USD", decimal.NewFromInt(120)); err != nil {
			t.Fatalf("UpsertFxRate failed: %v", err)
		}
		rate, err = settings.FxRate(ctx, "USD")
		if err != nil {
			t.Fatalf("FxRate failed: %v", err)
		}
		if !rate.Equal(decimal.NewFromInt(120)) {
			t.Errorf("Expected rate 120 after upsert, got %s", rate)
		}
	})

	t.Run("convert divides by rate", func(t *testing.T) {
		got, err := settings.Convert(ctx, decimal.NewFromInt(240), "USD")
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if !got.Equal(decimal.NewFromInt(2)) {
			t.Errorf("Expected 2, got %s", got)
		}
	})

	t.Run("unknown currency passes through", func(t *testing.T) {
		got, err := settings.Convert(ctx, decimal.NewFromInt(500), "EUR")
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if !got.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected pass-through 500, got %s", got)
		}
	})
}
