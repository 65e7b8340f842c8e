package order

import (
	"time"

	"github.com/noah-isme/scos-orders/internal/allocation"
	"github.com/noah-isme/scos-orders/internal/geo"
)

// StatusCompleted is the only status an order can carry; orders are created
// fully settled and never mutated afterwards.
const StatusCompleted = "completed"

// Calculation is the transient result of verifying an order. Validation
// outcomes are data, not errors: an unfulfillable order yields IsValid=false
// with a reason, so quote endpoints never raise.
type Calculation struct {
	Quantity       int                     `json:"quantity"`
	Subtotal       float64                 `json:"subtotal"`
	Discount       float64                 `json:"discount"`
	DiscountAmount float64                 `json:"discountAmount"`
	ShippingCost   float64                 `json:"shippingCost"`
	Total          float64                 `json:"total"`
	Allocations    []allocation.Allocation `json:"allocations"`
	IsValid        bool                    `json:"isValid"`
	InvalidReason  string                  `json:"invalidReason,omitempty"`

	// rejectCode carries the machine-readable failure classification for
	// the commit path; it is not part of the API payload.
	rejectCode string
}

// Order is the persisted record created at commit time.
type Order struct {
	ID               string                  `json:"id"`
	OrderNumber      string                  `json:"orderNumber"`
	Quantity         int                     `json:"quantity"`
	ShippingLocation geo.Coordinates         `json:"shippingLocation"`
	Subtotal         float64                 `json:"subtotal"`
	Discount         float64                 `json:"discount"`
	DiscountAmount   float64                 `json:"discountAmount"`
	ShippingCost     float64                 `json:"shippingCost"`
	Total            float64                 `json:"total"`
	Status           string                  `json:"status"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
	Allocations      []allocation.Allocation `json:"allocations"`
}

// CreateResult is returned from a successful commit.
type CreateResult struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Calculation Calculation `json:"calculation"`
}
