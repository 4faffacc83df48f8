package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kartalog/internal/asset"
	"kartalog/internal/cache"
	"kartalog/internal/config"
	"kartalog/internal/model"
	"kartalog/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// catalogService implements CatalogService.
type catalogService struct {
	repo   repository.ProductRepository
	cache  cache.Store
	assets asset.Manager
	cfg    config.CatalogConfig
	logger zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(
	repo repository.ProductRepository,
	cacheStore cache.Store,
	assets asset.Manager,
	cfg config.CatalogConfig,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  cacheStore,
		assets: assets,
		cfg:    cfg,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// Create validates and persists a new product.
func (s *catalogService) Create(ctx context.Context, req model.NewProductRequest) (string, error) {
	if req.Photo == "" {
		return "", model.ErrPhotoRequired
	}

	if !req.HasRequiredFields() {
		// The asset was stored before validation could run; remove it so a
		// record that will never exist cannot leak one.
		s.deleteAsset(ctx, req.Photo)
		return "", model.ErrFieldsRequired
	}

	if *req.Price < 0 {
		s.deleteAsset(ctx, req.Photo)
		return "", model.NewValidationError("Price must not be negative")
	}
	if *req.Stock < 0 {
		s.deleteAsset(ctx, req.Photo)
		return "", model.NewValidationError("Stock must not be negative")
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Category:  model.NormalizeCategory(req.Category),
		Price:     *req.Price,
		Stock:     *req.Stock,
		Photo:     req.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		// The stored asset is now orphaned. Deliberately kept: deleting it
		// here could destroy the only copy if the insert actually landed.
		s.logger.Error().Err(err).
			Str("photo", req.Photo).
			Msg("product insert failed, photo asset orphaned")
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	// No single-item key can exist yet for a brand-new id.
	s.invalidate(cache.InvalidationRequest{ProductFamilies: true, Admin: true})

	s.logger.Info().
		Str("product_id", product.ID).
		Str("category", product.Category).
		Msg("product created")

	return product.ID, nil
}

// GetByID retrieves a single product, cache-aside on its item key.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	key := cache.ItemKey(id)
	if data, ok := s.cache.Get(key); ok {
		var product model.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
		s.logger.Warn().Str("key", key).Msg("corrupt cache entry, evicting")
		s.cache.Invalidate(key)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.populate(key, product)

	return product, nil
}

// Latest retrieves the most recent products, cache-aside on the latest key.
func (s *catalogService) Latest(ctx context.Context) ([]model.Product, error) {
	if data, ok := s.cache.Get(cache.KeyLatest); ok {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		s.cache.Invalidate(cache.KeyLatest)
	}

	products, err := s.repo.FindLatest(ctx, s.cfg.LatestWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest products: %w", err)
	}

	s.populate(cache.KeyLatest, products)

	return products, nil
}

// Categories retrieves the distinct categories, cache-aside.
func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	if data, ok := s.cache.Get(cache.KeyCategories); ok {
		var categories []string
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
		s.cache.Invalidate(cache.KeyCategories)
	}

	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	s.populate(cache.KeyCategories, categories)

	return categories, nil
}

// AdminListing retrieves the full unfiltered product set, cache-aside.
func (s *catalogService) AdminListing(ctx context.Context) ([]model.Product, error) {
	if data, ok := s.cache.Get(cache.KeyAdminProducts); ok {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		s.cache.Invalidate(cache.KeyAdminProducts)
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin listing: %w", err)
	}

	s.populate(cache.KeyAdminProducts, products)

	return products, nil
}

// Search retrieves one page of filtered products plus the total page count.
// The page slice and the filtered count are fetched concurrently; a write
// landing between the two queries can skew the count slightly, which is
// accepted.
func (s *catalogService) Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = s.cfg.PageSize
	}
	offset := (page - 1) * limit

	filter := repository.SearchFilter{
		Name:     query.Search,
		MaxPrice: query.MaxPrice,
	}
	if query.Category != "" {
		filter.Category = model.NormalizeCategory(query.Category)
	}

	var (
		products []model.Product
		count    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.repo.Search(gctx, filter, query.Sort, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.repo.CountMatching(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}

	return &model.SearchResult{
		Products:   products,
		TotalPages: model.TotalPages(count, limit),
	}, nil
}

// Update applies a partial update, replacing the photo asset when a new
// upload is supplied.
func (s *catalogService) Update(ctx context.Context, id string, update model.ProductUpdate, photo *asset.Upload) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return model.ErrProductNotFound
	}

	if update.Price != nil && *update.Price < 0 {
		return model.NewValidationError("Price must not be negative")
	}
	if update.Stock != nil && *update.Stock < 0 {
		return model.NewValidationError("Stock must not be negative")
	}
	if update.Name != nil && *update.Name == "" {
		return model.NewValidationError("Name must not be empty")
	}
	if update.Category != nil {
		normalized := model.NormalizeCategory(*update.Category)
		if normalized == "" {
			return model.NewValidationError("Category must not be empty")
		}
		update.Category = &normalized
	}

	// Replace ordering: store the new asset first, persist the new
	// reference, and only then delete the superseded asset. A failure at
	// any later step never rolls an earlier one back.
	oldPhoto := ""
	if photo != nil {
		newRef, err := s.assets.Store(ctx, *photo)
		if err != nil {
			return fmt.Errorf("failed to store photo asset: %w", err)
		}
		update.Photo = &newRef
		oldPhoto = existing.Photo
	}

	found, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if update.Photo != nil {
			// New asset is orphaned; the record keeps its old reference.
			s.logger.Error().Err(err).
				Str("photo", *update.Photo).
				Msg("product update failed, new photo asset orphaned")
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	if oldPhoto != "" {
		s.deleteAsset(ctx, oldPhoto)
	}

	s.invalidate(cache.InvalidationRequest{ProductFamilies: true, ProductID: id, Admin: true})

	s.logger.Info().Str("product_id", id).Msg("product updated")

	return nil
}

// Delete removes a product, its photo asset and its cache entries. Record
// deletion gates the cache invalidation: if it fails, nothing is evicted
// and the error is surfaced.
func (s *catalogService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return model.ErrProductNotFound
	}

	s.deleteAsset(ctx, existing.Photo)

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.invalidate(cache.InvalidationRequest{ProductFamilies: true, ProductID: id, Admin: true})

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	return nil
}

// populate serialises a value into the cache. Population is best-effort:
// a marshal failure only costs the next reader a store round trip.
func (s *catalogService) populate(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to serialise cache entry")
		return
	}
	s.cache.Set(key, data)
}

// invalidate evicts the keys a mutation touched. Eviction never fails the
// owning operation; the record mutation is the source of truth.
func (s *catalogService) invalidate(req cache.InvalidationRequest) {
	keys := req.Keys()
	s.cache.Invalidate(keys...)
	s.logger.Debug().Strs("keys", keys).Msg("cache invalidated")
}

// deleteAsset removes a photo asset best-effort. A dangling unreferenced
// asset is a recoverable leak, so failures are logged and swallowed.
func (s *catalogService) deleteAsset(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.assets.Delete(ctx, ref); err != nil {
		s.logger.Warn().Err(err).Str("photo", ref).Msg("failed to delete photo asset")
	}
}
