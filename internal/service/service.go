package service

import (
	"context"

	"kartalog/internal/asset"
	"kartalog/internal/model"
)

// CatalogService defines operations for catalogue management. Reads are
// cache-aside: the cache is consulted first and repopulated on miss, and
// every path stays correct when the cache always misses. Mutations write
// to the store, reconcile photo assets, and then evict the affected cache
// families.
type CatalogService interface {
	// Create validates and persists a new product, returning its id.
	// The request's photo asset must already be stored; on a validation
	// failure the asset is deleted before the error is returned.
	Create(ctx context.Context, req model.NewProductRequest) (string, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Latest retrieves the most recently created products, newest first.
	Latest(ctx context.Context) ([]model.Product, error)

	// Categories retrieves the distinct category values.
	Categories(ctx context.Context) ([]string, error)

	// AdminListing retrieves every product, unfiltered.
	AdminListing(ctx context.Context) ([]model.Product, error)

	// Search retrieves one page of filtered products plus the total page
	// count. Results are never cached.
	Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error)

	// Update applies a partial update to an existing product. A non-nil
	// photo upload replaces the stored asset.
	Update(ctx context.Context, id string, update model.ProductUpdate, photo *asset.Upload) error

	// Delete removes a product and its photo asset.
	Delete(ctx context.Context, id string) error
}
