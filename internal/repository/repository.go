package repository

import (
	"context"

	"kartalog/internal/model"
)

// SearchFilter restricts a catalogue query. Zero-valued fields impose no
// constraint; all present fields are ANDed together.
type SearchFilter struct {
	// Name matches as a case-insensitive substring of the product name.
	Name string

	// MaxPrice is an inclusive upper bound on price.
	MaxPrice *float64

	// Category matches exactly.
	Category string
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// Insert persists a new product record.
	Insert(ctx context.Context, product *model.Product) error

	// FindByID retrieves a single product by its ID.
	// Returns (nil, nil) when no record exists.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// FindLatest retrieves the most recently created products, newest first.
	FindLatest(ctx context.Context, limit int) ([]model.Product, error)

	// FindAll retrieves every product, unfiltered.
	FindAll(ctx context.Context) ([]model.Product, error)

	// DistinctCategories retrieves the distinct category values across all
	// products.
	DistinctCategories(ctx context.Context) ([]string, error)

	// Search retrieves one page of products matching the filter. An empty
	// sort preserves natural order; model.SortAsc and model.SortDesc order
	// by price.
	Search(ctx context.Context, filter SearchFilter, sort string, offset, limit int) ([]model.Product, error)

	// CountMatching counts all products matching the filter.
	CountMatching(ctx context.Context, filter SearchFilter) (int, error)

	// Update applies the non-nil fields of the update to an existing record.
	// Returns false when no record exists.
	Update(ctx context.Context, id string, update model.ProductUpdate) (bool, error)

	// Delete removes a product record. Returns false when no record exists.
	Delete(ctx context.Context, id string) (bool, error)
}
