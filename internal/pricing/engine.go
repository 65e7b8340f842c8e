// Package pricing derives subtotal, quantity-tiered discount, and shipping
// totals for device orders, and validates the shipping-cost cap.
package pricing

import (
	"github.com/noah-isme/scos-orders/internal/allocation"
)

// Tier grants a discount fraction to orders of at least MinQuantity units.
type Tier struct {
	MinQuantity int
	Percentage  float64
}

// Config is the immutable pricing configuration injected at construction.
// Tiers must be sorted descending by MinQuantity.
type Config struct {
	UnitPrice           float64
	MaxShippingFraction float64
	Tiers               []Tier
}

// Summary aggregates computed pricing components for one order.
type Summary struct {
	Quantity       int
	Subtotal       float64
	Discount       float64
	DiscountAmount float64
	ShippingCost   float64
	Total          float64
}

// Engine computes order pricing. It is a pure function holder over Config.
type Engine struct {
	cfg Config
}

// NewEngine constructs a pricing engine from the given configuration.
func NewEngine(cfg Config) Engine {
	return Engine{cfg: cfg}
}

// Discount returns the discount fraction for the first tier whose minimum
// quantity the order reaches. Boundary quantities belong to their tier.
func (e Engine) Discount(quantity int) float64 {
	for _, tier := range e.cfg.Tiers {
		if quantity >= tier.MinQuantity {
			return tier.Percentage
		}
	}
	return 0
}

// Subtotal returns the pre-discount order value.
func (e Engine) Subtotal(quantity int) float64 {
	return float64(quantity) * e.cfg.UnitPrice
}

// DiscountAmount converts a discount fraction into currency.
func (e Engine) DiscountAmount(subtotal, discount float64) float64 {
	return subtotal * discount
}

// Total combines subtotal, discount, and shipping into the amount due.
func (e Engine) Total(subtotal, discountAmount, shippingCost float64) float64 {
	return subtotal - discountAmount + shippingCost
}

// IsShippingValid reports whether shipping stays within the configured
// fraction of the discounted order value. Exactly at the cap is valid.
func (e Engine) IsShippingValid(shippingCost, orderAmount float64) bool {
	return shippingCost <= orderAmount*e.cfg.MaxShippingFraction
}

// MaxShipping returns the largest permissible shipping cost for the given
// discounted order value.
func (e Engine) MaxShipping(orderAmount float64) float64 {
	return orderAmount * e.cfg.MaxShippingFraction
}

// Quote composes the full pricing summary for a quantity and its planned
// allocations. Shipping is the sum over all allocation legs.
func (e Engine) Quote(quantity int, allocations []allocation.Allocation) Summary {
	subtotal := e.Subtotal(quantity)
	discount := e.Discount(quantity)
	discountAmount := e.DiscountAmount(subtotal, discount)

	var shipping float64
	for _, alloc := range allocations {
		shipping += alloc.ShippingCost
	}

	return Summary{
		Quantity:       quantity,
		Subtotal:       subtotal,
		Discount:       discount,
		DiscountAmount: discountAmount,
		ShippingCost:   shipping,
		Total:          e.Total(subtotal, discountAmount, shipping),
	}
}
