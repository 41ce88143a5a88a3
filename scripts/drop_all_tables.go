//go:build ignore

// Drops every docsmith table for the configured environment prefix.
// Usage: go run scripts/drop_all_tables.go
package main

import (
	"context"
	"fmt"
	"log"

	"docsmith/internal/config"
	"docsmith/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop tables in prod")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.DropSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
}
