package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"kartalog/internal/config"
	"kartalog/internal/database"
	"kartalog/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// seedProducts fills the products table with generated catalogue data so the
// search, pagination and cache paths have something realistic to chew on.
// Database settings come from the same environment variables the server uses.
func main() {
	count := flag.Int("count", 40, "number of products to generate")
	wipe := flag.Bool("wipe", false, "delete existing products first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if *wipe {
		if _, err := pool.Exec(ctx, "DELETE FROM products"); err != nil {
			log.Fatalf("Failed to wipe products: %v", err)
		}
		fmt.Println("Existing products deleted")
	}

	categories := []string{"electronics", "clothing", "books", "toys", "sports", "grocery"}

	for i := 0; i < *count; i++ {
		created := gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).UTC()

		product := model.Product{
			ID:        uuid.New().String(),
			Name:      gofakeit.ProductName(),
			Category:  model.NormalizeCategory(gofakeit.RandomString(categories)),
			Price:     gofakeit.Price(1, 2000),
			Stock:     gofakeit.Number(0, 100),
			Photo:     "uploads/" + uuid.New().String() + ".jpg",
			CreatedAt: created,
			UpdatedAt: created,
		}

		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, category, price, stock, photo, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			product.ID, product.Name, product.Category, product.Price,
			product.Stock, product.Photo, product.CreatedAt, product.UpdatedAt,
		)
		if err != nil {
			log.Fatalf("Failed to insert product %s: %v", product.Name, err)
		}
	}

	fmt.Printf("Seeded %d products across %d categories\n", *count, len(categories))
}
