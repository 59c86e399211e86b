package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/pricing"
)

// mockCouponReader is a mock implementation of CouponReader.
type mockCouponReader struct {
	getByCodeFn func(ctx context.Context, code string) (*model.Coupon, error)
}

func (m *mockCouponReader) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func newCartService(cart CartRepositoryInterface, catalog ProductRepositoryInterface, coupons CouponReader) *CartService {
	return NewCartService(cart, catalog, coupons, pricing.DefaultPolicy())
}

func TestCartService_Get_PricesStoredLines(t *testing.T) {
	cart := cartWithItems([]model.CartItem{
		{ProductID: "p1", Name: "Tee", Price: 400, Size: "M", Color: "Black", Quantity: 2},
		{ProductID: "p2", Name: "Jeans", Price: 200, Size: "32", Color: "Blue", Quantity: 1},
	})
	svc := newCartService(cart, &mockProductRepository{}, &mockCouponReader{})

	resp, err := svc.Get(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 1000, resp.Summary.Subtotal)
	assert.Equal(t, 0, resp.Summary.ShippingFee)
	assert.Equal(t, 180, resp.Summary.Tax)
	assert.Equal(t, 1180, resp.Summary.GrandTotal)
	assert.Equal(t, 3, resp.Summary.ItemCount)
}

func TestCartService_AddItem_Success(t *testing.T) {
	var added *model.CartLine
	cart := cartWithItems([]model.CartItem{
		{ProductID: "p1", Name: "Tee", Price: 400, Size: "M", Color: "Black", Quantity: 2},
	})
	cart.addLineFn = func(ctx context.Context, line *model.CartLine) error {
		added = line
		return nil
	}
	catalog := &mockProductRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Name: "Tee", Price: 400}, nil
		},
	}
	svc := newCartService(cart, catalog, &mockCouponReader{})

	resp, err := svc.AddItem(context.Background(), "user-1", &model.AddCartItemRequest{
		ProductID: "p1", Size: "M", Color: "Black", Quantity: intPtr(2),
	})

	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, "user-1", added.UserID)
	assert.Equal(t, 2, added.Quantity)
	assert.Equal(t, 800, resp.Summary.Subtotal)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	svc := newCartService(&mockCartRepository{}, &mockProductRepository{}, &mockCouponReader{})

	for _, qty := range []int{0, -1, -5} {
		_, err := svc.AddItem(context.Background(), "user-1", &model.AddCartItemRequest{
			ProductID: "p1", Size: "M", Color: "Black", Quantity: intPtr(qty),
		})
		require.ErrorIs(t, err, pricing.ErrInvalidQuantity, "quantity %d must be rejected", qty)
	}
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	svc := newCartService(&mockCartRepository{}, &mockProductRepository{}, &mockCouponReader{})

	_, err := svc.AddItem(context.Background(), "user-1", &model.AddCartItemRequest{
		ProductID: "missing", Size: "M", Color: "Black", Quantity: intPtr(1),
	})

	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_SetQuantity_LineNotFound(t *testing.T) {
	cart := &mockCartRepository{
		setQuantityFn: func(ctx context.Context, userID, productID, size, color string, quantity int) error {
			return ErrCartLineNotFound
		},
	}
	svc := newCartService(cart, &mockProductRepository{}, &mockCouponReader{})

	_, err := svc.SetQuantity(context.Background(), "user-1", &model.UpdateCartItemRequest{
		ProductID: "p1", Size: "M", Color: "Black", Quantity: intPtr(3),
	})

	require.ErrorIs(t, err, ErrCartLineNotFound)
}

func TestCartService_QuoteCoupon_Success(t *testing.T) {
	cart := cartWithItems([]model.CartItem{
		{ProductID: "p1", Name: "Tee", Price: 500, Size: "M", Color: "Black", Quantity: 4},
	})
	var lookedUp string
	coupons := &mockCouponReader{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			lookedUp = code
			return &model.Coupon{
				Code: code, Type: model.CouponPercentage, Value: 10,
				MinOrderValue: 500, MaxDiscount: intPtr(200),
				UsageLimit: 100, UsedCount: 25,
				ExpiryDate: time.Now().Add(24 * time.Hour), IsActive: true,
			}, nil
		},
	}
	svc := newCartService(cart, &mockProductRepository{}, coupons)

	quote, err := svc.QuoteCoupon(context.Background(), "user-1", "  welcome10 ")

	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", lookedUp, "lookup must use the normalized code")
	assert.Equal(t, 2000, quote.Subtotal)
	assert.Equal(t, 200, quote.Discount, "10% of 2000 capped at 200")
	assert.Equal(t, 2000+0+360-200, quote.Total)
}

func TestCartService_QuoteCoupon_NotFound(t *testing.T) {
	svc := newCartService(&mockCartRepository{}, &mockProductRepository{}, &mockCouponReader{})

	_, err := svc.QuoteCoupon(context.Background(), "user-1", "NOPE")

	require.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCartService_QuoteCoupon_BelowMinimum(t *testing.T) {
	cart := cartWithItems([]model.CartItem{
		{ProductID: "p1", Name: "Tee", Price: 200, Size: "M", Color: "Black", Quantity: 1},
	})
	coupons := &mockCouponReader{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{
				Code: code, Type: model.CouponFixed, Value: 50, MinOrderValue: 300,
				UsageLimit: 200, UsedCount: 89,
				ExpiryDate: time.Now().Add(24 * time.Hour), IsActive: true,
			}, nil
		},
	}
	svc := newCartService(cart, &mockProductRepository{}, coupons)

	_, err := svc.QuoteCoupon(context.Background(), "user-1", "FLAT50")

	require.ErrorIs(t, err, ErrCouponNotRedeemable)
}

func TestCartService_QuoteCoupon_DoesNotConsumeUsage(t *testing.T) {
	// Quoting must never touch the usage count; that happens at checkout.
	cart := cartWithItems([]model.CartItem{
		{ProductID: "p1", Name: "Tee", Price: 1000, Size: "M", Color: "Black", Quantity: 1},
	})
	coupon := &model.Coupon{
		Code: "WELCOME10", Type: model.CouponPercentage, Value: 10,
		UsageLimit: 100, UsedCount: 25,
		ExpiryDate: time.Now().Add(24 * time.Hour), IsActive: true,
	}
	coupons := &mockCouponReader{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return coupon, nil
		},
	}
	svc := newCartService(cart, &mockProductRepository{}, coupons)

	_, err := svc.QuoteCoupon(context.Background(), "user-1", "WELCOME10")
	require.NoError(t, err)
	_, err = svc.QuoteCoupon(context.Background(), "user-1", "WELCOME10")
	require.NoError(t, err)

	assert.Equal(t, 25, coupon.UsedCount)
}
