package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
	"github.com/heven-commerce/storefront/pkg/database"
)

// OrderRepository provides data access for orders using pgx.
// Orders are append-only: after insert, only status, tracking number and
// updated_at are ever written.
type OrderRepository struct {
	pool PoolInterface
}

// NewOrderRepository creates a new OrderRepository with the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NewOrderRepositoryWithPool creates an OrderRepository with a custom pool
// interface. Primarily used for testing.
func NewOrderRepositoryWithPool(pool PoolInterface) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert writes the order header and its item snapshots within a transaction.
func (r *OrderRepository) Insert(ctx context.Context, tx database.TxQuerier, o *model.Order) error {
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	query := `INSERT INTO orders
		(id, user_id, subtotal, discount, shipping_fee, tax, total, coupon_code, status, shipping_address, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		o.ID, o.UserID, o.Subtotal, o.Discount, o.ShippingFee, o.Tax, o.Total,
		o.CouponCode, o.Status, addr, o.PaymentMethod,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, image, price, size, color, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, it.ProductID, it.Name, it.Image, it.Price, it.Size, it.Color, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

const orderColumns = `id, user_id, subtotal, discount, shipping_fee, tax, total,
	coupon_code, status, shipping_address, payment_method, tracking_number, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var addr []byte
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.Discount, &o.ShippingFee, &o.Tax,
		&o.Total, &o.CouponCode, &o.Status, &addr, &o.PaymentMethod,
		&o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return &o, nil
}

// GetByID retrieves an order with its items.
// Returns nil, nil if the order is not found (service layer handles this).
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	if o.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, name, image, price, size, color, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items for order %s: %w", orderID, err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Image, &it.Price, &it.Size, &it.Color, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	return items, nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.listItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListByUser retrieves a user's orders newest-first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAll retrieves orders newest-first for the back office, optionally
// narrowed to one status.
func (r *OrderRepository) ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	limit := f.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	if f.Status != "" {
		return r.list(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			f.Status, limit, offset)
	}
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
}

// UpdateStatus writes the new status (and optional tracking number) and
// refreshes updated_at in place.
// Returns service.ErrOrderNotFound when the order doesn't exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *model.Order) error {
	query := `UPDATE orders SET status = $2, tracking_number = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, o.ID, o.Status, o.TrackingNumber).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrOrderNotFound
		}
		return fmt.Errorf("update order status %s: %w", o.ID, err)
	}
	return nil
}

// Stats aggregates the admin dashboard numbers. Revenue excludes cancelled
// orders.
func (r *OrderRepository) Stats(ctx context.Context) (revenue, count int, err error) {
	query := `SELECT COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0), COUNT(*) FROM orders`
	if err := r.pool.QueryRow(ctx, query).Scan(&revenue, &count); err != nil {
		return 0, 0, fmt.Errorf("order stats: %w", err)
	}
	return revenue, count, nil
}

// Recent returns the most recent orders for the dashboard.
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]model.Order, error) {
	if limit < 1 {
		limit = 5
	}
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
}
