// Package pricing implements the cart totals and coupon arithmetic for the
// storefront. Everything here is pure logic over values already fetched;
// persistence and HTTP belong to the surrounding layers.
package pricing

// Policy carries the checkout pricing rules. All monetary values are whole
// currency units.
type Policy struct {
	FreeShippingThreshold int
	FlatShippingFee       int
	TaxRatePercent        int
}

// DefaultPolicy returns the storefront's standard policy: free shipping over
// 999, flat fee of 50 otherwise, 18% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: 999,
		FlatShippingFee:       50,
		TaxRatePercent:        18,
	}
}

// ShippingFee returns 0 when the subtotal exceeds the free-shipping
// threshold, the flat fee otherwise.
func (p Policy) ShippingFee(subtotal int) int {
	if subtotal > p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingFee
}

// Tax returns the tax on the subtotal, rounded half-up to the nearest
// whole currency unit.
func (p Policy) Tax(subtotal int) int {
	return (subtotal*p.TaxRatePercent + 50) / 100
}

// GrandTotal returns subtotal + shipping + tax.
func (p Policy) GrandTotal(subtotal int) int {
	return subtotal + p.ShippingFee(subtotal) + p.Tax(subtotal)
}
