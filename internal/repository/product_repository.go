package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kartalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = "id, name, category, price, stock, photo, created_at, updated_at"

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Insert persists a new product record.
func (r *productRepository) Insert(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, category, price, stock, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Category,
		product.Price,
		product.Stock,
		product.Photo,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// FindByID retrieves a single product by its ID.
func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Photo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// FindLatest retrieves the most recently created products, newest first.
func (r *productRepository) FindLatest(ctx context.Context, limit int) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		ORDER BY created_at DESC
		LIMIT $1
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query latest products")
		return nil, fmt.Errorf("failed to query latest products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// FindAll retrieves every product, unfiltered.
func (r *productRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query all products")
		return nil, fmt.Errorf("failed to query all products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// DistinctCategories retrieves the distinct category values across all products.
func (r *productRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM products ORDER BY category`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query distinct categories")
		return nil, fmt.Errorf("failed to query distinct categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Search retrieves one page of products matching the filter.
func (r *productRepository) Search(ctx context.Context, filter SearchFilter, sort string, offset, limit int) ([]model.Product, error) {
	whereClause, args := buildFilter(filter)
	argIndex := len(args) + 1

	orderClause := ""
	switch sort {
	case model.SortAsc:
		orderClause = "ORDER BY price ASC"
	case model.SortDesc:
		orderClause = "ORDER BY price DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, orderClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// CountMatching counts all products matching the filter.
func (r *productRepository) CountMatching(ctx context.Context, filter SearchFilter) (int, error) {
	whereClause, args := buildFilter(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM products %s`, whereClause)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Update applies the non-nil fields of the update to an existing record.
func (r *productRepository) Update(ctx context.Context, id string, update model.ProductUpdate) (bool, error) {
	setClauses := []string{}
	args := []interface{}{id}
	argIndex := 2

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Category != nil {
		addSet("category", *update.Category)
	}
	if update.Price != nil {
		addSet("price", *update.Price)
	}
	if update.Stock != nil {
		addSet("stock", *update.Stock)
	}
	if update.Photo != nil {
		addSet("photo", *update.Photo)
	}
	addSet("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $1`, strings.Join(setClauses, ", "))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes a product record.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// buildFilter translates a SearchFilter into a WHERE clause with
// positional arguments. All present conditions are ANDed.
func buildFilter(filter SearchFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Name+"%")
		argIndex++
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// scanProducts drains rows into a product slice.
func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Photo, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
