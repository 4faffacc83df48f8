package model

import (
	"math"
	"strings"
	"time"
)

// Product represents a single item in the catalogue. Every product owns
// exactly one photo asset; Photo holds its storage reference.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	Photo     string    `json:"photo" db:"photo"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NormalizeCategory lower-cases and trims a category value so lookups and
// the distinct-category listing agree on a single spelling.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// NewProductRequest carries the fields required to create a product.
// Photo must reference an asset that has already been stored. Price and
// Stock are pointers so a missing field is distinguishable from a zero
// value; validation of presence happens in the catalogue service, where
// the already-stored asset can be cleaned up on rejection.
type NewProductRequest struct {
	Name     string
	Category string
	Price    *float64
	Stock    *int
	Photo    string
}

// HasRequiredFields reports whether every required field is present.
func (r NewProductRequest) HasRequiredFields() bool {
	return r.Name != "" && r.Category != "" && r.Price != nil && r.Stock != nil
}

// ProductUpdate is a partial update. Nil fields are left unchanged; a
// non-nil pointer to a zero value (e.g. stock 0) is applied as given.
type ProductUpdate struct {
	Name     *string
	Category *string
	Price    *float64
	Stock    *int
	Photo    *string
}

// IsEmpty reports whether the update would change nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Stock == nil && u.Photo == nil
}

// Sort directions for search results, by price.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchQuery describes a catalogue search. Zero-valued fields impose no
// constraint; MaxPrice is an inclusive upper bound.
type SearchQuery struct {
	Search   string
	MaxPrice *float64
	Category string
	Sort     string
	Page     int
	Limit    int
}

// SearchResult is one page of products plus the total number of pages the
// full filtered set spans.
type SearchResult struct {
	Products   []Product `json:"products"`
	TotalPages int       `json:"totalPages"`
}

// TotalPages computes ceil(count/limit); zero matches yield zero pages.
func TotalPages(count, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count) / float64(limit)))
}
