package service

import "errors"

var (
	// ErrProductNotFound is returned when a product cannot be found
	ErrProductNotFound = errors.New("product not found")

	// ErrSKUExists is returned when creating a product with a SKU already in use
	ErrSKUExists = errors.New("product sku already exists")

	// ErrCouponExists is returned when attempting to create a coupon whose code already exists
	ErrCouponExists = errors.New("coupon code already exists")

	// ErrCouponNotFound is returned when a coupon cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponNotRedeemable is returned when a coupon fails the redeemability
	// predicate (inactive, expired, exhausted, or subtotal below minimum)
	ErrCouponNotRedeemable = errors.New("coupon not redeemable")

	// ErrUsageLimitExceeded is returned when redemption is attempted against an
	// exhausted coupon. A normal, expected outcome under concurrent checkouts.
	ErrUsageLimitExceeded = errors.New("coupon usage limit exceeded")

	// ErrInvalidStatusTransition is returned when a requested order-status move
	// is not in the allowed table. The order is left unchanged.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// ErrOrderNotFound is returned when an order cannot be found
	ErrOrderNotFound = errors.New("order not found")

	// ErrCartEmpty is returned when checkout is attempted with no cart lines
	ErrCartEmpty = errors.New("cart is empty")

	// ErrCartLineNotFound is returned when updating or removing an absent cart line
	ErrCartLineNotFound = errors.New("cart line not found")

	// ErrEmailExists is returned when registering with an email already in use
	ErrEmailExists = errors.New("email already registered")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on login with a wrong email or password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserBlocked is returned on login for a blocked account
	ErrUserBlocked = errors.New("user is blocked")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
