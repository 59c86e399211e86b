package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/pricing"
	"github.com/heven-commerce/storefront/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, c *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
	IncrementUsedCount(ctx context.Context, tx database.TxQuerier, code string) error
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, c *model.Coupon) error
	Delete(ctx context.Context, id string) error
}

// CouponService provides the back-office coupon management logic.
type CouponService struct {
	coupons CouponRepositoryInterface
}

// NewCouponService creates a new CouponService with the given repository.
func NewCouponService(coupons CouponRepositoryInterface) *CouponService {
	return &CouponService{coupons: coupons}
}

// Create creates a new coupon. The code is normalized to upper-case before
// storage, so lookups are case-insensitive.
// Returns ErrCouponExists if the code is already taken.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil || req.Value == nil || req.UsageLimit == nil {
		return nil, ErrInvalidRequest
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidRequest
	}

	c := &model.Coupon{
		ID:            uuid.NewString(),
		Code:          pricing.NormalizeCode(req.Code),
		Type:          req.Type,
		Value:         *req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    *req.UsageLimit,
		UsedCount:     0,
		ExpiryDate:    req.ExpiryDate,
		IsActive:      req.IsActive,
		Description:   req.Description,
	}
	if err := s.coupons.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get retrieves a coupon by code, case-insensitively.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) Get(ctx context.Context, code string) (*model.Coupon, error) {
	c, err := s.coupons.GetByCode(ctx, pricing.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

// List retrieves all coupons.
func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	return s.coupons.List(ctx)
}

// Update applies a partial update to the coupon identified by code and
// returns the updated record. The code itself and the used count cannot be
// changed here.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) Update(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	c, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	c.ApplyUpdate(req)
	if c.UsageLimit < c.UsedCount {
		// Shrinking the limit below what is already used would break the
		// usedCount <= usageLimit invariant.
		return nil, ErrInvalidRequest
	}
	if err := s.coupons.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a coupon by code.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) Delete(ctx context.Context, code string) error {
	c, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	return s.coupons.Delete(ctx, c.ID)
}
