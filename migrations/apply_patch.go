package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Applies a migration file to DATABASE_URL. Defaults to the initial schema;
// pass a path to apply a later patch instead.
func main() {
	_ = godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	file := "migrations/001_init.sql"
	if len(os.Args) > 1 {
		file = os.Args[1]
	}
	sqlFile, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", file, err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, string(sqlFile)); err != nil {
		log.Fatalf("Migration %s failed: %v", file, err)
	}
	log.Printf("Applied %s", file)
}
