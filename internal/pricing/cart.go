package pricing

import (
	"errors"

	"github.com/heven-commerce/storefront/internal/model"
)

// ErrInvalidQuantity is returned when a non-positive quantity is passed to
// an add operation. Quantity zero is only meaningful as a removal signal
// through SetQuantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// lineKey uniquely identifies a cart line.
type lineKey struct {
	productID string
	size      string
	color     string
}

// Line is one (product, size, color) selection with a quantity.
// The product is referenced, not owned; Subtotal always uses the product's
// current price.
type Line struct {
	Product  *model.Product
	Size     string
	Color    string
	Quantity int
}

// Cart holds the line items for one shopper session and prices them under a
// Policy. Lines keep insertion order; no two lines share the same
// (product, size, color) key. The zero value is not usable, use NewCart.
type Cart struct {
	policy Policy
	lines  []*Line
	index  map[lineKey]*Line
}

// NewCart returns an empty cart priced under the given policy.
func NewCart(policy Policy) *Cart {
	return &Cart{
		policy: policy,
		index:  make(map[lineKey]*Line),
	}
}

// Add puts quantity units of (product, size, color) into the cart.
// A matching existing line is incremented instead of duplicated.
func (c *Cart) Add(product *model.Product, size, color string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	key := lineKey{product.ID, size, color}
	if line, ok := c.index[key]; ok {
		line.Quantity += quantity
		return nil
	}
	line := &Line{Product: product, Size: size, Color: color, Quantity: quantity}
	c.lines = append(c.lines, line)
	c.index[key] = line
	return nil
}

// SetQuantity replaces the quantity of the matching line. A quantity of zero
// or below removes the line. Setting a quantity on an absent line is a no-op.
func (c *Cart) SetQuantity(productID, size, color string, quantity int) {
	key := lineKey{productID, size, color}
	line, ok := c.index[key]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.removeKey(key)
		return
	}
	line.Quantity = quantity
}

// Remove deletes the matching line if present.
func (c *Cart) Remove(productID, size, color string) {
	c.removeKey(lineKey{productID, size, color})
}

func (c *Cart) removeKey(key lineKey) {
	line, ok := c.index[key]
	if !ok {
		return
	}
	delete(c.index, key)
	for i, l := range c.lines {
		if l == line {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []*Line {
	return c.lines
}

// Subtotal sums current product price times quantity over all lines.
func (c *Cart) Subtotal() int {
	total := 0
	for _, line := range c.lines {
		total += line.Product.Price * line.Quantity
	}
	return total
}

// ShippingFee returns the shipping fee for the current subtotal.
func (c *Cart) ShippingFee() int {
	return c.policy.ShippingFee(c.Subtotal())
}

// Tax returns the tax for the current subtotal.
func (c *Cart) Tax() int {
	return c.policy.Tax(c.Subtotal())
}

// GrandTotal returns subtotal + shipping fee + tax.
func (c *Cart) GrandTotal() int {
	return c.policy.GrandTotal(c.Subtotal())
}

// ItemCount sums the quantities across all lines. It is kept consistent with
// every mutation and backs the cart badge in the UI.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Summary prices the cart into a CartSummary snapshot.
func (c *Cart) Summary() model.CartSummary {
	subtotal := c.Subtotal()
	return model.CartSummary{
		Subtotal:    subtotal,
		ShippingFee: c.policy.ShippingFee(subtotal),
		Tax:         c.policy.Tax(subtotal),
		GrandTotal:  c.policy.GrandTotal(subtotal),
		ItemCount:   c.ItemCount(),
	}
}
