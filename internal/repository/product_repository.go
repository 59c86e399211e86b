package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ProductRepository provides data access for catalog products using pgx.
type ProductRepository struct {
	pool PoolInterface
}

// NewProductRepository creates a new ProductRepository with the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// NewProductRepositoryWithPool creates a ProductRepository with a custom pool
// interface. Primarily used for testing.
func NewProductRepositoryWithPool(pool PoolInterface) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, price, original_price, image, images, category, description,
	sizes, colors, rating, review_count, in_stock, featured, trending, stock, sku, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Image, &p.Images,
		&p.Category, &p.Description, &p.Sizes, &p.Colors, &p.Rating,
		&p.ReviewCount, &p.InStock, &p.Featured, &p.Trending, &p.Stock,
		&p.SKU, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert inserts a new product and fills in its timestamps.
// Returns service.ErrSKUExists when the SKU is already in use.
func (r *ProductRepository) Insert(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products
		(id, name, price, original_price, image, images, category, description,
		 sizes, colors, rating, review_count, in_stock, featured, trending, stock, sku)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Price, p.OriginalPrice, p.Image, p.Images, p.Category,
		p.Description, p.Sizes, p.Colors, p.Rating, p.ReviewCount, p.InStock,
		p.Featured, p.Trending, p.Stock, p.SKU,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrSKUExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
// Returns nil, nil if the product is not found (service layer handles this).
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// List retrieves products newest-first, optionally narrowed by filter.
func (r *ProductRepository) List(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		query += fmt.Sprintf(" AND featured = $%d", len(args))
	}
	if f.Trending != nil {
		args = append(args, *f.Trending)
		query += fmt.Sprintf(" AND trending = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// Update writes the full product row and returns the refreshed timestamps in
// place. The mutation returns the updated record directly so callers never
// need a follow-up fetch.
// Returns service.ErrProductNotFound when the product doesn't exist.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET
		name = $2, price = $3, original_price = $4, image = $5, images = $6,
		category = $7, description = $8, sizes = $9, colors = $10,
		in_stock = $11, featured = $12, trending = $13, stock = $14,
		updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Price, p.OriginalPrice, p.Image, p.Images, p.Category,
		p.Description, p.Sizes, p.Colors, p.InStock, p.Featured, p.Trending, p.Stock,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrProductNotFound
		}
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes a product.
// Returns service.ErrProductNotFound when the product doesn't exist.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrProductNotFound
	}
	return nil
}

// Count returns the number of products, used by the admin dashboard.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
