package model

import "time"

// CouponType discriminates how a coupon's value is interpreted.
type CouponType string

const (
	// CouponPercentage takes value percent off the subtotal, capped at MaxDiscount when set.
	CouponPercentage CouponType = "percentage"
	// CouponFixed takes a flat value off the subtotal, never more than the subtotal itself.
	CouponFixed CouponType = "fixed"
)

// Valid reports whether t is a known coupon type.
func (t CouponType) Valid() bool {
	return t == CouponPercentage || t == CouponFixed
}

// Coupon represents a discount coupon. Codes are stored upper-case and
// matched case-insensitively. UsedCount never exceeds UsageLimit.
type Coupon struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	Type          CouponType `json:"type"`
	Value         int        `json:"value"`
	MinOrderValue int        `json:"min_order_value"`
	MaxDiscount   *int       `json:"max_discount,omitempty"`
	UsageLimit    int        `json:"usage_limit"`
	UsedCount     int        `json:"used_count"`
	ExpiryDate    time.Time  `json:"expiry_date"`
	IsActive      bool       `json:"is_active"`
	Description   string     `json:"description"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateCouponRequest is the DTO for POST /api/admin/coupons.
type CreateCouponRequest struct {
	Code          string     `json:"code" validate:"required,notblank,max=50"`
	Type          CouponType `json:"type" validate:"required,oneof=percentage fixed"`
	Value         *int       `json:"value" validate:"required,gte=1"`
	MinOrderValue int        `json:"min_order_value" validate:"gte=0"`
	MaxDiscount   *int       `json:"max_discount" validate:"omitempty,gte=1"`
	UsageLimit    *int       `json:"usage_limit" validate:"required,gte=1"`
	ExpiryDate    time.Time  `json:"expiry_date" validate:"required"`
	IsActive      bool       `json:"is_active"`
	Description   string     `json:"description"`
}

// UpdateCouponRequest is the DTO for partial coupon updates.
// The code and used count are immutable after creation.
type UpdateCouponRequest struct {
	Type          *CouponType `json:"type" validate:"omitempty,oneof=percentage fixed"`
	Value         *int        `json:"value" validate:"omitempty,gte=1"`
	MinOrderValue *int        `json:"min_order_value" validate:"omitempty,gte=0"`
	MaxDiscount   *int        `json:"max_discount" validate:"omitempty,gte=1"`
	UsageLimit    *int        `json:"usage_limit" validate:"omitempty,gte=1"`
	ExpiryDate    *time.Time  `json:"expiry_date"`
	IsActive      *bool       `json:"is_active"`
	Description   *string     `json:"description"`
}

// ApplyUpdate merges the non-nil fields of req into the coupon.
func (c *Coupon) ApplyUpdate(req *UpdateCouponRequest) {
	if req == nil {
		return
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Value != nil {
		c.Value = *req.Value
	}
	if req.MinOrderValue != nil {
		c.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		c.MaxDiscount = req.MaxDiscount
	}
	if req.UsageLimit != nil {
		c.UsageLimit = *req.UsageLimit
	}
	if req.ExpiryDate != nil {
		c.ExpiryDate = *req.ExpiryDate
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
}
