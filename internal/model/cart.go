package model

import "time"

// CartLine is one stored cart row. A line is uniquely identified by
// (UserID, ProductID, Size, Color); quantity is always positive.
type CartLine struct {
	UserID    string    `json:"-"`
	ProductID string    `json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// CartItem is a cart line joined with its product for display,
// priced at the product's current price.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int    `json:"price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// CartSummary is the priced view of a cart.
type CartSummary struct {
	Subtotal    int `json:"subtotal"`
	ShippingFee int `json:"shipping_fee"`
	Tax         int `json:"tax"`
	GrandTotal  int `json:"grand_total"`
	ItemCount   int `json:"item_count"`
}

// CartResponse is the API response for GET /api/cart and cart mutations.
type CartResponse struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}

// AddCartItemRequest is the DTO for adding a line to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required,notblank,max=50"`
	Color     string `json:"color" validate:"required,notblank,max=50"`
	Quantity  *int   `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartItemRequest is the DTO for replacing a line's quantity.
// A quantity of zero or below removes the line.
type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required,notblank,max=50"`
	Color     string `json:"color" validate:"required,notblank,max=50"`
	Quantity  *int   `json:"quantity" validate:"required"`
}

// RemoveCartItemRequest is the DTO for removing a line.
type RemoveCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required,notblank,max=50"`
	Color     string `json:"color" validate:"required,notblank,max=50"`
}

// ApplyCouponRequest is the DTO for quoting a coupon against the cart.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required,notblank,max=50"`
}

// CouponQuote is the result of applying a coupon code to the current cart.
type CouponQuote struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
	Subtotal int    `json:"subtotal"`
	Total    int    `json:"total"` // grand total after discount
}
