// Package allocation selects which warehouses fulfil an order and at what
// shipping cost, minimising total cost with a cheapest-first greedy fill.
package allocation

import (
	"fmt"
	"sort"

	"github.com/noah-isme/scos-orders/internal/geo"
)

// Warehouse is a point-in-time stock snapshot used as engine input.
type Warehouse struct {
	ID       string
	Name     string
	Location geo.Coordinates
	Stock    int
}

// Allocation assigns part of an order's quantity to one warehouse.
type Allocation struct {
	WarehouseID   string  `json:"warehouseId"`
	WarehouseName string  `json:"warehouseName"`
	Quantity      int     `json:"quantity"`
	DistanceKm    float64 `json:"distance"`
	ShippingCost  float64 `json:"shippingCost"`
}

// InsufficientStockError reports how many units could not be covered by the
// snapshot. No partial allocation accompanies it.
type InsufficientStockError struct {
	Shortfall int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: need %d more units", e.Shortfall)
}

// Config is the immutable allocation configuration injected at construction.
type Config struct {
	UnitWeightKg   float64
	RatePerKgPerKm float64
}

// Engine plans allocations. It performs no I/O and holds no mutable state.
type Engine struct {
	cfg Config
}

// NewEngine constructs an allocation engine from the given configuration.
func NewEngine(cfg Config) Engine {
	return Engine{cfg: cfg}
}

type candidate struct {
	Warehouse
	distanceKm  float64
	costPerUnit float64
}

// Plan covers quantity from the snapshot, cheapest shipping first.
//
// Per-unit cost from a warehouse is constant (cost is linear in weight), so
// exhausting cheaper warehouses before dearer ones minimises total shipping.
// Ties keep the snapshot order; callers rely on that for reproducibility.
func (e Engine) Plan(warehouses []Warehouse, quantity int, destination geo.Coordinates) ([]Allocation, error) {
	candidates := make([]candidate, 0, len(warehouses))
	for _, wh := range warehouses {
		if wh.Stock <= 0 {
			continue
		}
		dist := geo.Distance(wh.Location, destination)
		candidates = append(candidates, candidate{
			Warehouse:   wh,
			distanceKm:  dist,
			costPerUnit: geo.ShippingCost(dist, e.cfg.UnitWeightKg, e.cfg.RatePerKgPerKm),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].costPerUnit < candidates[j].costPerUnit
	})

	allocations := make([]Allocation, 0, len(candidates))
	remaining := quantity
	for _, cand := range candidates {
		if remaining == 0 {
			break
		}
		allocated := min(cand.Stock, remaining)
		weight := float64(allocated) * e.cfg.UnitWeightKg
		allocations = append(allocations, Allocation{
			WarehouseID:   cand.ID,
			WarehouseName: cand.Name,
			Quantity:      allocated,
			DistanceKm:    cand.distanceKm,
			ShippingCost:  geo.ShippingCost(cand.distanceKm, weight, e.cfg.RatePerKgPerKm),
		})
		remaining -= allocated
	}

	if remaining > 0 {
		return nil, &InsufficientStockError{Shortfall: remaining}
	}
	return allocations, nil
}

// TotalStock sums available stock across a snapshot.
func TotalStock(warehouses []Warehouse) int {
	total := 0
	for _, wh := range warehouses {
		total += wh.Stock
	}
	return total
}
