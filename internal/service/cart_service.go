package service

import (
	"context"
	"fmt"
	"time"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/pricing"
	"github.com/heven-commerce/storefront/pkg/database"
)

// CartRepositoryInterface defines the interface for cart data access.
type CartRepositoryInterface interface {
	AddLine(ctx context.Context, line *model.CartLine) error
	SetQuantity(ctx context.Context, userID, productID, size, color string, quantity int) error
	RemoveLine(ctx context.Context, userID, productID, size, color string) error
	ListItems(ctx context.Context, userID string) ([]model.CartItem, error)
	Clear(ctx context.Context, tx database.TxQuerier, userID string) error
}

// CouponReader is the read-only coupon access the cart quote path needs.
type CouponReader interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

// CartService provides business logic for the shopping cart.
type CartService struct {
	cart    CartRepositoryInterface
	catalog ProductRepositoryInterface
	coupons CouponReader
	policy  pricing.Policy
	now     func() time.Time
}

// NewCartService creates a new CartService.
func NewCartService(cart CartRepositoryInterface, catalog ProductRepositoryInterface, coupons CouponReader, policy pricing.Policy) *CartService {
	return &CartService{
		cart:    cart,
		catalog: catalog,
		coupons: coupons,
		policy:  policy,
		now:     time.Now,
	}
}

// priceItems runs the stored cart lines through the pricing engine.
func (s *CartService) priceItems(items []model.CartItem) model.CartResponse {
	cart := pricing.NewCart(s.policy)
	for i := range items {
		it := &items[i]
		p := &model.Product{ID: it.ProductID, Name: it.Name, Price: it.Price}
		// Stored lines are already unique per key, so Add never merges here
		// and quantity is always positive.
		_ = cart.Add(p, it.Size, it.Color, it.Quantity)
	}
	return model.CartResponse{Items: items, Summary: cart.Summary()}
}

// Get returns the user's priced cart.
func (s *CartService) Get(ctx context.Context, userID string) (*model.CartResponse, error) {
	items, err := s.cart.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	resp := s.priceItems(items)
	return &resp, nil
}

// AddItem adds quantity units of (product, size, color) to the cart and
// returns the updated priced cart. An existing matching line is incremented.
// Returns pricing.ErrInvalidQuantity for a non-positive quantity and
// ErrProductNotFound when the product doesn't exist.
func (s *CartService) AddItem(ctx context.Context, userID string, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	if req == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}
	if *req.Quantity < 1 {
		return nil, pricing.ErrInvalidQuantity
	}

	p, err := s.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	line := &model.CartLine{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  *req.Quantity,
	}
	if err := s.cart.AddLine(ctx, line); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// SetQuantity replaces a line's quantity; zero or below removes the line.
// Returns ErrCartLineNotFound when no matching line exists.
func (s *CartService) SetQuantity(ctx context.Context, userID string, req *model.UpdateCartItemRequest) (*model.CartResponse, error) {
	if req == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}
	if err := s.cart.SetQuantity(ctx, userID, req.ProductID, req.Size, req.Color, *req.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem deletes a line from the cart.
// Returns ErrCartLineNotFound when no matching line exists.
func (s *CartService) RemoveItem(ctx context.Context, userID string, req *model.RemoveCartItemRequest) (*model.CartResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := s.cart.RemoveLine(ctx, userID, req.ProductID, req.Size, req.Color); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// QuoteCoupon evaluates a coupon code against the user's current cart without
// redeeming it. The usage count is only consumed at checkout.
// Returns ErrCouponNotFound for an unknown code and ErrCouponNotRedeemable
// when the coupon fails the redeemability predicate.
func (s *CartService) QuoteCoupon(ctx context.Context, userID, code string) (*model.CouponQuote, error) {
	coupon, err := s.coupons.GetByCode(ctx, pricing.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	items, err := s.cart.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	priced := s.priceItems(items)

	now := s.now()
	if !pricing.Redeemable(coupon, priced.Summary.Subtotal, now) {
		return nil, ErrCouponNotRedeemable
	}

	discount := pricing.Discount(coupon, priced.Summary.Subtotal, now)
	return &model.CouponQuote{
		Code:     coupon.Code,
		Discount: discount,
		Subtotal: priced.Summary.Subtotal,
		Total:    priced.Summary.GrandTotal - discount,
	}, nil
}
