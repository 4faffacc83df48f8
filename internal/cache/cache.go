// Package cache provides the process-wide key-value store of serialized
// query results and the invalidation protocol that keeps it consistent
// with catalogue mutations.
package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cached key families. Search pages are deliberately never cached: they are
// parameterized by arbitrary filter/sort/page combinations and would explode
// the key space.
const (
	KeyLatest        = "latest-products"
	KeyCategories    = "categories"
	KeyAdminProducts = "admin-products"

	itemKeyPrefix = "product:"
)

// adminStatsKeys is the dashboard-stats family maintained by the admin
// subsystem. The catalogue never populates these keys but must evict them
// on every mutation, since they aggregate product data.
var adminStatsKeys = []string{
	"admin-stats",
	"admin-pie-charts",
	"admin-bar-charts",
	"admin-line-charts",
}

// ItemKey returns the cache key for a single product record.
func ItemKey(productID string) string {
	return itemKeyPrefix + productID
}

// Store is the catalogue's view of the cache. Implementations must make
// each call individually atomic; no cross-call transaction is provided, so
// concurrent duplicate population after a shared miss is expected and
// harmless. Callers must stay correct when Get always misses.
type Store interface {
	// Get returns the value stored under key, or false on a miss.
	Get(key string) ([]byte, bool)

	// Set stores value under key, overwriting any previous value.
	Set(key string, value []byte)

	// Has reports whether key is present.
	Has(key string) bool

	// Invalidate removes the listed keys. Absent keys are no-ops.
	Invalidate(keys ...string)
}

// memoryStore is an in-process Store with no expiry; entries live for the
// process lifetime unless invalidated.
type memoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates an in-memory cache store.
func NewMemoryStore() Store {
	return &memoryStore{
		c: gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *memoryStore) Get(key string) ([]byte, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (s *memoryStore) Set(key string, value []byte) {
	s.c.Set(key, value, gocache.NoExpiration)
}

func (s *memoryStore) Has(key string) bool {
	_, ok := s.c.Get(key)
	return ok
}

func (s *memoryStore) Invalidate(keys ...string) {
	for _, key := range keys {
		s.c.Delete(key)
	}
}

// InvalidationRequest describes which cache families a mutation touched.
// Each mutation site constructs it with exactly the fields relevant to that
// mutation; create leaves ProductID empty because no single-item entry can
// exist yet.
type InvalidationRequest struct {
	// ProductFamilies clears the latest, categories and admin-products lists.
	ProductFamilies bool

	// ProductID, when set, clears the single-item entry for that product.
	ProductID string

	// Admin clears the dashboard-stats family owned by the admin subsystem.
	Admin bool
}

// Keys expands the request into the concrete cache keys to evict.
func (r InvalidationRequest) Keys() []string {
	var keys []string
	if r.ProductFamilies {
		keys = append(keys, KeyLatest, KeyCategories, KeyAdminProducts)
	}
	if r.ProductID != "" {
		keys = append(keys, ItemKey(r.ProductID))
	}
	if r.Admin {
		keys = append(keys, adminStatsKeys...)
	}
	return keys
}
