package pricing

import (
	"strings"
	"time"

	"github.com/heven-commerce/storefront/internal/model"
)

// NormalizeCode returns the canonical storage form of a coupon code:
// trimmed and upper-cased. Matching is case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeemable reports whether the coupon can be applied to a cart with the
// given subtotal at the given time. All four conditions must hold: the coupon
// is active, not expired, not exhausted, and the subtotal meets the minimum
// order value. Expiry dominates the active flag.
func Redeemable(c *model.Coupon, subtotal int, now time.Time) bool {
	if c == nil {
		return false
	}
	return c.IsActive &&
		now.Before(c.ExpiryDate) &&
		c.UsedCount < c.UsageLimit &&
		subtotal >= c.MinOrderValue
}

// Discount computes the discount amount for the coupon against the subtotal.
// Returns 0 when the coupon is not redeemable. The result is never negative
// and never exceeds the subtotal.
func Discount(c *model.Coupon, subtotal int, now time.Time) int {
	if !Redeemable(c, subtotal, now) {
		return 0
	}
	var discount int
	switch c.Type {
	case model.CouponPercentage:
		discount = subtotal * c.Value / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	case model.CouponFixed:
		discount = c.Value
	default:
		return 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
