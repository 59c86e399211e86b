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
	"github.com/heven-commerce/storefront/pkg/database"
)

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a CouponRepository with a custom pool
// interface. Primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, code, type, value, min_order_value, max_discount,
	usage_limit, used_count, expiry_date, is_active, description, created_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Type, &c.Value, &c.MinOrderValue, &c.MaxDiscount,
		&c.UsageLimit, &c.UsedCount, &c.ExpiryDate, &c.IsActive, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new coupon. The code must already be in canonical
// upper-case form.
// Returns service.ErrCouponExists if a coupon with the same code exists.
func (r *CouponRepository) Insert(ctx context.Context, c *model.Coupon) error {
	query := `INSERT INTO coupons
		(id, code, type, value, min_order_value, max_discount, usage_limit, used_count, expiry_date, is_active, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Code, c.Type, c.Value, c.MinOrderValue, c.MaxDiscount,
		c.UsageLimit, c.UsedCount, c.ExpiryDate, c.IsActive, c.Description,
	).Scan(&c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its canonical code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return c, nil
}

// GetByCodeForUpdate retrieves a coupon with a row lock (SELECT FOR UPDATE).
// The lock serializes concurrent redemptions so the usage limit cannot be
// oversubscribed by a read-then-write race.
// Returns service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1 FOR UPDATE`

	c, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update %s: %w", code, err)
	}
	return c, nil
}

// IncrementUsedCount increments used_count by exactly 1.
// Must be called within a transaction after locking the row; the WHERE guard
// and the table CHECK constraint both refuse to run past the usage limit.
// Returns service.ErrUsageLimitExceeded when the coupon is exhausted.
func (r *CouponRepository) IncrementUsedCount(ctx context.Context, tx database.TxQuerier, code string) error {
	query := `UPDATE coupons SET used_count = used_count + 1
		WHERE code = $1 AND used_count < usage_limit`

	tag, err := tx.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("increment used_count for %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUsageLimitExceeded
	}
	return nil
}

// List retrieves all coupons newest-first.
func (r *CouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// Update writes the mutable coupon fields. Code and used_count are immutable
// through this path.
// Returns service.ErrCouponNotFound when the coupon doesn't exist.
func (r *CouponRepository) Update(ctx context.Context, c *model.Coupon) error {
	query := `UPDATE coupons SET
		type = $2, value = $3, min_order_value = $4, max_discount = $5,
		usage_limit = $6, expiry_date = $7, is_active = $8, description = $9
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Type, c.Value, c.MinOrderValue, c.MaxDiscount,
		c.UsageLimit, c.ExpiryDate, c.IsActive, c.Description)
	if err != nil {
		return fmt.Errorf("update coupon %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// Delete removes a coupon by ID.
// Returns service.ErrCouponNotFound when the coupon doesn't exist.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}
