package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/pricing"
	"github.com/heven-commerce/storefront/pkg/database"
)

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CouponRedeemerInterface is the transactional coupon access checkout needs.
type CouponRedeemerInterface interface {
	GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
	IncrementUsedCount(ctx context.Context, tx database.TxQuerier, code string) error
}

// OrderWriterInterface is the order insert access checkout needs.
type OrderWriterInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, o *model.Order) error
}

// CheckoutService turns a cart into an order. The whole flow runs in one
// transaction: coupon redemption, order snapshot, and cart clearing either
// all land or none do.
type CheckoutService struct {
	pool    TxBeginner
	cart    CartRepositoryInterface
	coupons CouponRedeemerInterface
	orders  OrderWriterInterface
	policy  pricing.Policy
	now     func() time.Time
}

// NewCheckoutService creates a new CheckoutService with the given pool and
// repositories.
func NewCheckoutService(pool *pgxpool.Pool, cart CartRepositoryInterface, coupons CouponRedeemerInterface, orders OrderWriterInterface, policy pricing.Policy) *CheckoutService {
	return &CheckoutService{
		pool:    pool,
		cart:    cart,
		coupons: coupons,
		orders:  orders,
		policy:  policy,
		now:     time.Now,
	}
}

// NewCheckoutServiceWithTxBeginner creates a CheckoutService with a custom
// TxBeginner. Primarily used for testing.
func NewCheckoutServiceWithTxBeginner(pool TxBeginner, cart CartRepositoryInterface, coupons CouponRedeemerInterface, orders OrderWriterInterface, policy pricing.Policy) *CheckoutService {
	return &CheckoutService{
		pool:    pool,
		cart:    cart,
		coupons: coupons,
		orders:  orders,
		policy:  policy,
		now:     time.Now,
	}
}

// Checkout prices the user's cart, optionally redeems a coupon, snapshots the
// lines into a new pending order, and clears the cart.
// Returns:
//   - ErrCartEmpty when the cart has no lines
//   - ErrCouponNotFound for an unknown coupon code
//   - ErrUsageLimitExceeded when the coupon is exhausted
//   - ErrCouponNotRedeemable when the coupon fails any other condition
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	items, err := s.cart.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := 0
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		subtotal += it.Price * it.Quantity
		orderItems = append(orderItems, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price, // locked-in price
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	discount := 0
	var couponCode *string
	if req.CouponCode != "" {
		code := pricing.NormalizeCode(req.CouponCode)

		// Lock the coupon row so concurrent checkouts serialize on the
		// usage-limit check.
		coupon, err := s.coupons.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return nil, err
		}

		now := s.now()
		if !pricing.Redeemable(coupon, subtotal, now) {
			if coupon.UsedCount >= coupon.UsageLimit {
				return nil, ErrUsageLimitExceeded
			}
			return nil, ErrCouponNotRedeemable
		}

		if err := s.coupons.IncrementUsedCount(ctx, tx, code); err != nil {
			return nil, err
		}
		discount = pricing.Discount(coupon, subtotal, now)
		couponCode = &code
	}

	shipping := s.policy.ShippingFee(subtotal)
	tax := s.policy.Tax(subtotal)

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           orderItems,
		Subtotal:        subtotal,
		Discount:        discount,
		ShippingFee:     shipping,
		Tax:             tax,
		Total:           subtotal + shipping + tax - discount,
		CouponCode:      couponCode,
		Status:          model.StatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	if err := s.orders.Insert(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := s.cart.Clear(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, nil
}
