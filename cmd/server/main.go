package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "planboard/internal/adapters/web"
	"planboard/internal/ai"
	"planboard/internal/app"
	"planboard/internal/core"
	"planboard/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
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
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set, advisor disabled")
	}

	svc := app.NewAppService(productService, campaignService, opexService, scenarioService, settingsService, advisor)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
