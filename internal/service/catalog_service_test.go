package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"kartalog/internal/asset"
	"kartalog/internal/cache"
	"kartalog/internal/config"
	"kartalog/internal/model"
	"kartalog/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindLatest(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, filter repository.SearchFilter, sort string, offset, limit int) ([]model.Product, error) {
	args := m.Called(ctx, filter, sort, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) CountMatching(ctx context.Context, filter repository.SearchFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, update model.ProductUpdate) (bool, error) {
	args := m.Called(ctx, id, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockAssetManager is a mock implementation of asset.Manager.
type MockAssetManager struct {
	mock.Mock
}

func (m *MockAssetManager) Store(ctx context.Context, upload asset.Upload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

func (m *MockAssetManager) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

var testCatalogConfig = config.CatalogConfig{LatestWindow: 5, PageSize: 8}

func newTestService(repo repository.ProductRepository, assets asset.Manager) (CatalogService, cache.Store) {
	store := cache.NewMemoryStore()
	svc := NewCatalogService(repo, store, assets, testCatalogConfig, zerolog.Nop())
	return svc, store
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }

func seedFamilies(store cache.Store) {
	store.Set(cache.KeyLatest, []byte("stale"))
	store.Set(cache.KeyCategories, []byte("stale"))
	store.Set(cache.KeyAdminProducts, []byte("stale"))
}

func testProduct(id string) *model.Product {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &model.Product{
		ID:        id,
		Name:      "Pen",
		Category:  "stationery",
		Price:     10,
		Stock:     5,
		Photo:     "/uploads/products/pen.jpg",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success lower-cases category and evicts product families", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		seedFamilies(store)

		var inserted *model.Product
		mockRepo.On("Insert", ctx, mock.AnythingOfType("*model.Product")).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*model.Product)
			}).
			Return(nil)

		id, err := svc.Create(ctx, model.NewProductRequest{
			Name:     "Pen",
			Category: "  Stationery ",
			Price:    floatPtr(10),
			Stock:    intPtr(5),
			Photo:    "/uploads/products/a.jpg",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		require.NotNil(t, inserted)
		assert.Equal(t, id, inserted.ID)
		assert.Equal(t, "stationery", inserted.Category)
		assert.Equal(t, "/uploads/products/a.jpg", inserted.Photo)

		assert.False(t, store.Has(cache.KeyLatest))
		assert.False(t, store.Has(cache.KeyCategories))
		assert.False(t, store.Has(cache.KeyAdminProducts))

		mockRepo.AssertExpectations(t)
		mockAssets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Missing photo rejected before any write", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		_, err := svc.Create(ctx, model.NewProductRequest{
			Name:     "Pen",
			Category: "Stationery",
			Price:    floatPtr(10),
			Stock:    intPtr(5),
		})
		assert.Equal(t, model.ErrPhotoRequired, err)

		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Missing fields delete the stored asset before returning", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockAssets.On("Delete", ctx, "/uploads/products/a.jpg").Return(nil).Once()

		_, err := svc.Create(ctx, model.NewProductRequest{
			Name:  "Pen",
			Photo: "/uploads/products/a.jpg",
		})
		assert.Equal(t, model.ErrFieldsRequired, err)

		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		mockAssets.AssertExpectations(t)
	})

	t.Run("Stock zero is a present value, not a missing field", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		var inserted *model.Product
		mockRepo.On("Insert", ctx, mock.AnythingOfType("*model.Product")).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*model.Product)
			}).
			Return(nil)

		_, err := svc.Create(ctx, model.NewProductRequest{
			Name:     "Pen",
			Category: "Stationery",
			Price:    floatPtr(10),
			Stock:    intPtr(0),
			Photo:    "/uploads/products/a.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, inserted.Stock)
	})

	t.Run("Negative price rejected and asset deleted", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockAssets.On("Delete", ctx, "/uploads/products/a.jpg").Return(nil).Once()

		_, err := svc.Create(ctx, model.NewProductRequest{
			Name:     "Pen",
			Category: "Stationery",
			Price:    floatPtr(-1),
			Stock:    intPtr(5),
			Photo:    "/uploads/products/a.jpg",
		})
		require.Error(t, err)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeValidation, domainErr.Code)

		mockAssets.AssertExpectations(t)
	})

	t.Run("Insert failure orphans the asset instead of deleting it", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		seedFamilies(store)

		mockRepo.On("Insert", ctx, mock.AnythingOfType("*model.Product")).
			Return(errors.New("database error"))

		_, err := svc.Create(ctx, model.NewProductRequest{
			Name:     "Pen",
			Category: "Stationery",
			Price:    floatPtr(10),
			Stock:    intPtr(5),
			Photo:    "/uploads/products/a.jpg",
		})
		require.Error(t, err)

		// Failed mutations must not evict the cache.
		assert.True(t, store.Has(cache.KeyLatest))

		mockAssets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss populates the cache, second read skips the store", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		product := testProduct("P001")
		mockRepo.On("FindByID", ctx, "P001").Return(product, nil).Once()

		first, err := svc.GetByID(ctx, "P001")
		require.NoError(t, err)
		assert.True(t, store.Has(cache.ItemKey("P001")))

		second, err := svc.GetByID(ctx, "P001")
		require.NoError(t, err)

		firstJSON, err := json.Marshal(first)
		require.NoError(t, err)
		secondJSON, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, firstJSON, secondJSON)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P999").Return(nil, nil)

		_, err := svc.GetByID(ctx, "P999")
		assert.Equal(t, model.ErrProductNotFound, err)
		assert.False(t, store.Has(cache.ItemKey("P999")))
	})

	t.Run("Empty id", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		_, err := svc.GetByID(ctx, "")
		assert.Equal(t, model.ErrProductNotFound, err)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P001").Return(nil, errors.New("database error"))

		_, err := svc.GetByID(ctx, "P001")
		require.Error(t, err)
	})

	t.Run("Corrupt cache entry falls back to the store", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		store.Set(cache.ItemKey("P001"), []byte("{not json"))
		mockRepo.On("FindByID", ctx, "P001").Return(testProduct("P001"), nil).Once()

		product, err := svc.GetByID(ctx, "P001")
		require.NoError(t, err)
		assert.Equal(t, "P001", product.ID)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_Latest(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss fetches the configured window and populates", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		products := []model.Product{*testProduct("P001"), *testProduct("P002")}
		mockRepo.On("FindLatest", ctx, testCatalogConfig.LatestWindow).Return(products, nil).Once()

		first, err := svc.Latest(ctx)
		require.NoError(t, err)
		assert.Len(t, first, 2)
		assert.True(t, store.Has(cache.KeyLatest))

		second, err := svc.Latest(ctx)
		require.NoError(t, err)
		assert.Len(t, second, 2)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindLatest", ctx, testCatalogConfig.LatestWindow).
			Return(nil, errors.New("database error"))

		_, err := svc.Latest(ctx)
		require.Error(t, err)
	})
}

func TestCatalogService_Categories(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	mockAssets := new(MockAssetManager)
	svc, store := newTestService(mockRepo, mockAssets)

	mockRepo.On("DistinctCategories", ctx).
		Return([]string{"electronics", "stationery"}, nil).Once()

	first, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "stationery"}, first)
	assert.True(t, store.Has(cache.KeyCategories))

	second, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.AssertExpectations(t)
}

func TestCatalogService_AdminListing(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	mockAssets := new(MockAssetManager)
	svc, store := newTestService(mockRepo, mockAssets)

	products := []model.Product{*testProduct("P001")}
	mockRepo.On("FindAll", ctx).Return(products, nil).Once()

	first, err := svc.AdminListing(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.True(t, store.Has(cache.KeyAdminProducts))

	second, err := svc.AdminListing(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.AssertExpectations(t)
}

func TestCatalogService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("Filters are ANDed and passed through, total pages exact", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		expectedFilter := repository.SearchFilter{
			Name:     "pen",
			MaxPrice: floatPtr(100),
			Category: "x",
		}

		matching := []model.Product{*testProduct("P001")}
		mockRepo.On("Search", mock.Anything, expectedFilter, model.SortAsc, 0, 8).
			Return(matching, nil)
		mockRepo.On("CountMatching", mock.Anything, expectedFilter).Return(17, nil)

		result, err := svc.Search(ctx, model.SearchQuery{
			Search:   "pen",
			MaxPrice: floatPtr(100),
			Category: "X",
			Sort:     model.SortAsc,
		})
		require.NoError(t, err)

		assert.Equal(t, matching, result.Products)
		// ceil(17 / 8)
		assert.Equal(t, 3, result.TotalPages)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Zero matches yield zero pages and an empty slice", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("Search", mock.Anything, mock.Anything, "", 0, 8).
			Return([]model.Product{}, nil)
		mockRepo.On("CountMatching", mock.Anything, mock.Anything).Return(0, nil)

		result, err := svc.Search(ctx, model.SearchQuery{Search: "nothing"})
		require.NoError(t, err)

		assert.Equal(t, 0, result.TotalPages)
		assert.NotNil(t, result.Products)
		assert.Empty(t, result.Products)
	})

	t.Run("Page and limit drive the offset", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("Search", mock.Anything, repository.SearchFilter{}, "", 20, 10).
			Return([]model.Product{}, nil)
		mockRepo.On("CountMatching", mock.Anything, repository.SearchFilter{}).Return(25, nil)

		result, err := svc.Search(ctx, model.SearchQuery{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalPages)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Count query failure fails the search", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("Search", mock.Anything, mock.Anything, "", 0, 8).
			Return([]model.Product{}, nil).Maybe()
		mockRepo.On("CountMatching", mock.Anything, mock.Anything).
			Return(0, errors.New("database error"))

		_, err := svc.Search(ctx, model.SearchQuery{})
		require.Error(t, err)
	})
}

func TestCatalogService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P999").Return(nil, nil)

		err := svc.Update(ctx, "P999", model.ProductUpdate{Price: floatPtr(12)}, nil)
		assert.Equal(t, model.ErrProductNotFound, err)
	})

	t.Run("Price-only update evicts families and the item entry", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		seedFamilies(store)
		store.Set(cache.ItemKey("P001"), []byte("stale"))

		mockRepo.On("FindByID", ctx, "P001").Return(testProduct("P001"), nil)
		mockRepo.On("Update", ctx, "P001", model.ProductUpdate{Price: floatPtr(12)}).
			Return(true, nil)

		err := svc.Update(ctx, "P001", model.ProductUpdate{Price: floatPtr(12)}, nil)
		require.NoError(t, err)

		assert.False(t, store.Has(cache.ItemKey("P001")))
		assert.False(t, store.Has(cache.KeyLatest))
		assert.False(t, store.Has(cache.KeyCategories))
		assert.False(t, store.Has(cache.KeyAdminProducts))

		mockRepo.AssertExpectations(t)
		mockAssets.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		mockAssets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Zero stock is applied, not skipped", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P001").Return(testProduct("P001"), nil)
		mockRepo.On("Update", ctx, "P001", model.ProductUpdate{Stock: intPtr(0)}).
			Return(true, nil)

		err := svc.Update(ctx, "P001", model.ProductUpdate{Stock: intPtr(0)}, nil)
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Photo replacement stores new asset then deletes old exactly once", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		existing := testProduct("P001")
		upload := asset.Upload{Filename: "new.jpg", Body: strings.NewReader("bytes")}

		mockRepo.On("FindByID", ctx, "P001").Return(existing, nil)
		mockAssets.On("Store", ctx, upload).Return("/uploads/products/new.jpg", nil).Once()
		mockRepo.On("Update", ctx, "P001", mock.MatchedBy(func(u model.ProductUpdate) bool {
			return u.Photo != nil && *u.Photo == "/uploads/products/new.jpg"
		})).Return(true, nil)
		mockAssets.On("Delete", ctx, existing.Photo).Return(nil).Once()

		err := svc.Update(ctx, "P001", model.ProductUpdate{}, &upload)
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
		mockAssets.AssertExpectations(t)
		mockAssets.AssertNumberOfCalls(t, "Delete", 1)
	})

	t.Run("Persist failure after upload keeps the old asset", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		seedFamilies(store)

		existing := testProduct("P001")
		upload := asset.Upload{Filename: "new.jpg", Body: strings.NewReader("bytes")}

		mockRepo.On("FindByID", ctx, "P001").Return(existing, nil)
		mockAssets.On("Store", ctx, upload).Return("/uploads/products/new.jpg", nil)
		mockRepo.On("Update", ctx, "P001", mock.Anything).
			Return(false, errors.New("database error"))

		err := svc.Update(ctx, "P001", model.ProductUpdate{}, &upload)
		require.Error(t, err)

		// Old asset untouched, cache untouched.
		mockAssets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.True(t, store.Has(cache.KeyLatest))
	})

	t.Run("Upload failure aborts before any record write", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		upload := asset.Upload{Filename: "new.jpg", Body: strings.NewReader("bytes")}

		mockRepo.On("FindByID", ctx, "P001").Return(testProduct("P001"), nil)
		mockAssets.On("Store", ctx, upload).Return("", errors.New("disk full"))

		err := svc.Update(ctx, "P001", model.ProductUpdate{}, &upload)
		require.Error(t, err)

		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed deletion of the old asset does not fail the update", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		existing := testProduct("P001")
		upload := asset.Upload{Filename: "new.jpg", Body: strings.NewReader("bytes")}

		mockRepo.On("FindByID", ctx, "P001").Return(existing, nil)
		mockAssets.On("Store", ctx, upload).Return("/uploads/products/new.jpg", nil)
		mockRepo.On("Update", ctx, "P001", mock.Anything).Return(true, nil)
		mockAssets.On("Delete", ctx, existing.Photo).Return(errors.New("gone already"))

		err := svc.Update(ctx, "P001", model.ProductUpdate{}, &upload)
		assert.NoError(t, err)
	})

	t.Run("Negative price rejected", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P001").Return(testProduct("P001"), nil)

		err := svc.Update(ctx, "P001", model.ProductUpdate{Price: floatPtr(-5)}, nil)
		require.Error(t, err)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeValidation, domainErr.Code)

		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Category update is normalized", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P001").Return(testProduct("P001"), nil)
		mockRepo.On("Update", ctx, "P001", mock.MatchedBy(func(u model.ProductUpdate) bool {
			return u.Category != nil && *u.Category == "office supplies"
		})).Return(true, nil)

		err := svc.Update(ctx, "P001", model.ProductUpdate{Category: strPtr(" Office Supplies ")}, nil)
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		mockRepo.On("FindByID", ctx, "P999").Return(nil, nil)

		err := svc.Delete(ctx, "P999")
		assert.Equal(t, model.ErrProductNotFound, err)
	})

	t.Run("Success deletes asset, record and cache entries", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		seedFamilies(store)
		store.Set(cache.ItemKey("P001"), []byte("stale"))

		existing := testProduct("P001")
		mockRepo.On("FindByID", ctx, "P001").Return(existing, nil)
		mockAssets.On("Delete", ctx, existing.Photo).Return(nil).Once()
		mockRepo.On("Delete", ctx, "P001").Return(true, nil)

		err := svc.Delete(ctx, "P001")
		require.NoError(t, err)

		assert.False(t, store.Has(cache.ItemKey("P001")))
		assert.False(t, store.Has(cache.KeyLatest))
		assert.False(t, store.Has(cache.KeyAdminProducts))

		mockRepo.AssertExpectations(t)
		mockAssets.AssertExpectations(t)
	})

	t.Run("Asset deletion failure does not block the delete", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, _ := newTestService(mockRepo, mockAssets)

		existing := testProduct("P001")
		mockRepo.On("FindByID", ctx, "P001").Return(existing, nil)
		mockAssets.On("Delete", ctx, existing.Photo).Return(errors.New("backend down"))
		mockRepo.On("Delete", ctx, "P001").Return(true, nil)

		err := svc.Delete(ctx, "P001")
		assert.NoError(t, err)
	})

	t.Run("Record deletion failure surfaces and skips invalidation", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockAssets := new(MockAssetManager)
		svc, store := newTestService(mockRepo, mockAssets)

		seedFamilies(store)

		existing := testProduct("P001")
		mockRepo.On("FindByID", ctx, "P001").Return(existing, nil)
		mockAssets.On("Delete", ctx, existing.Photo).Return(nil)
		mockRepo.On("Delete", ctx, "P001").Return(false, errors.New("database error"))

		err := svc.Delete(ctx, "P001")
		require.Error(t, err)

		assert.True(t, store.Has(cache.KeyLatest))
		assert.True(t, store.Has(cache.KeyCategories))
		assert.True(t, store.Has(cache.KeyAdminProducts))
	})
}

// Exercises the create → partial update → delete flow end to end against
// mocks, checking the cache at each step.
func TestCatalogService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	mockAssets := new(MockAssetManager)
	svc, store := newTestService(mockRepo, mockAssets)

	seedFamilies(store)

	var created *model.Product
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*model.Product")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Product)
		}).
		Return(nil)

	id, err := svc.Create(ctx, model.NewProductRequest{
		Name:     "Pen",
		Category: "Stationery",
		Price:    floatPtr(10),
		Stock:    intPtr(5),
		Photo:    "/uploads/products/a.jpg",
	})
	require.NoError(t, err)
	assert.False(t, store.Has(cache.KeyLatest))

	// Partial price update leaves the name alone.
	updated := *created
	updated.Price = 12
	mockRepo.On("FindByID", ctx, id).Return(&updated, nil)
	mockRepo.On("Update", ctx, id, model.ProductUpdate{Price: floatPtr(12)}).
		Return(true, nil)

	require.NoError(t, svc.Update(ctx, id, model.ProductUpdate{Price: floatPtr(12)}, nil))

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Price)
	assert.Equal(t, "Pen", got.Name)

	// Delete, then reads must miss.
	mockAssets.On("Delete", ctx, created.Photo).Return(nil)
	mockRepo.On("Delete", ctx, id).Return(true, nil)
	require.NoError(t, svc.Delete(ctx, id))

	assert.False(t, store.Has(cache.ItemKey(id)))
}
