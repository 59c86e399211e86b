package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
	"github.com/heven-commerce/storefront/pkg/database"
)

// CartRepository provides data access for per-user cart lines using pgx.
// A line is unique per (user_id, product_id, size, color); the upsert in
// AddLine keeps that invariant at the database level.
type CartRepository struct {
	pool PoolInterface
}

// NewCartRepository creates a new CartRepository with the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// NewCartRepositoryWithPool creates a CartRepository with a custom pool
// interface. Primarily used for testing.
func NewCartRepositoryWithPool(pool PoolInterface) *CartRepository {
	return &CartRepository{pool: pool}
}

// AddLine adds quantity units to the user's cart. An existing matching line
// is incremented in place rather than duplicated.
func (r *CartRepository) AddLine(ctx context.Context, line *model.CartLine) error {
	query := `INSERT INTO cart_items (user_id, product_id, size, color, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		line.UserID, line.ProductID, line.Size, line.Color, line.Quantity)
	if err != nil {
		return fmt.Errorf("add cart line: %w", err)
	}
	return nil
}

// SetQuantity replaces the quantity of a line. A quantity of zero or below
// deletes the line instead.
// Returns service.ErrCartLineNotFound when no matching line exists.
func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID, size, color string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveLine(ctx, userID, productID, size, color)
	}

	query := `UPDATE cart_items SET quantity = $5, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2 AND size = $3 AND color = $4`

	tag, err := r.pool.Exec(ctx, query, userID, productID, size, color, quantity)
	if err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCartLineNotFound
	}
	return nil
}

// RemoveLine deletes a matching line.
// Returns service.ErrCartLineNotFound when no matching line exists.
func (r *CartRepository) RemoveLine(ctx context.Context, userID, productID, size, color string) error {
	query := `DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND size = $3 AND color = $4`

	tag, err := r.pool.Exec(ctx, query, userID, productID, size, color)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCartLineNotFound
	}
	return nil
}

// ListItems returns the user's cart lines joined with their products, priced
// at the current product price, in insertion order.
func (r *CartRepository) ListItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	query := `SELECT c.product_id, p.name, p.image, p.price, c.size, c.color, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items for user %s: %w", userID, err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Image, &it.Price, &it.Size, &it.Color, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.LineTotal = it.Price * it.Quantity
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}
	return items, nil
}

// Clear deletes all of the user's cart lines within a transaction.
// Used at the end of checkout.
func (r *CartRepository) Clear(ctx context.Context, tx database.TxQuerier, userID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart for user %s: %w", userID, err)
	}
	return nil
}
