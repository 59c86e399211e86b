package model

import "time"

// OrderStatus is the lifecycle tag attached to an order.
//
// The forward path is fixed: pending -> confirmed -> shipped -> delivered.
// cancelled is a separate terminal state reachable from any non-terminal
// state. No other transitions are valid.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// forward holds the single allowed forward move per status.
var forward = map[OrderStatus]OrderStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return forward[s] == next
}

// ProgressPercent maps a status to its progress-indicator value.
// Presentation only, not a business invariant.
func (s OrderStatus) ProgressPercent() int {
	switch s {
	case StatusPending:
		return 25
	case StatusConfirmed:
		return 50
	case StatusShipped:
		return 75
	case StatusDelivered:
		return 100
	default:
		return 0
	}
}

// Address is a shipping address snapshot stored with the order.
type Address struct {
	Name    string `json:"name" validate:"required,notblank,max=255"`
	Street  string `json:"street" validate:"required,notblank,max=255"`
	City    string `json:"city" validate:"required,notblank,max=100"`
	State   string `json:"state" validate:"required,notblank,max=100"`
	ZipCode string `json:"zip_code" validate:"required,notblank,max=20"`
}

// OrderItem is a snapshot of one cart line at checkout time.
// Price is locked in; later catalog changes do not affect it.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int    `json:"price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// Order is an append-only order record. After creation the only mutation
// path is a status transition (plus the tracking number set while shipping).
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Items           []OrderItem `json:"items"`
	Subtotal        int         `json:"subtotal"`
	Discount        int         `json:"discount"`
	ShippingFee     int         `json:"shipping_fee"`
	Tax             int         `json:"tax"`
	Total           int         `json:"total"`
	CouponCode      *string     `json:"coupon_code,omitempty"`
	Status          OrderStatus `json:"status"`
	ShippingAddress Address     `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	TrackingNumber  *string     `json:"tracking_number,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderResponse decorates an order with its progress indicator.
type OrderResponse struct {
	Order
	ProgressPercent int `json:"progress_percent"`
}

// NewOrderResponse wraps an order for API output.
func NewOrderResponse(o *Order) *OrderResponse {
	return &OrderResponse{Order: *o, ProgressPercent: o.Status.ProgressPercent()}
}

// CheckoutRequest is the DTO for POST /api/checkout.
type CheckoutRequest struct {
	ShippingAddress Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string  `json:"payment_method" validate:"required,notblank,max=100"`
	CouponCode      string  `json:"coupon_code" validate:"omitempty,max=50"`
}

// UpdateOrderStatusRequest is the DTO for admin status transitions.
type UpdateOrderStatusRequest struct {
	Status         OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
	TrackingNumber *string     `json:"tracking_number" validate:"omitempty,max=100"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status OrderStatus
	Limit  int
	Offset int
}
