package allocation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scos-orders/internal/geo"
)

var testConfig = Config{UnitWeightKg: 0.365, RatePerKgPerKm: 0.01}

// warehouseAt builds a snapshot entry whose distance to the origin scales
// with latitude, so ordering by latitude is ordering by shipping cost.
func warehouseAt(id string, lat float64, stock int) Warehouse {
	return Warehouse{ID: id, Name: "WH " + id, Location: geo.Coordinates{Latitude: lat}, Stock: stock}
}

func TestPlanSingleWarehouse(t *testing.T) {
	engine := NewEngine(testConfig)
	warehouses := []Warehouse{
		warehouseAt("wh-1", 1, 100),
		warehouseAt("wh-2", 2, 200),
		warehouseAt("wh-3", 3, 150),
	}

	allocations, err := engine.Plan(warehouses, 50, geo.Coordinates{})
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	require.Equal(t, "wh-1", allocations[0].WarehouseID)
	require.Equal(t, 50, allocations[0].Quantity)
}

func TestPlanSpillsToNextCheapest(t *testing.T) {
	engine := NewEngine(testConfig)
	warehouses := []Warehouse{
		warehouseAt("wh-1", 1, 50),
		warehouseAt("wh-2", 2, 30),
	}

	allocations, err := engine.Plan(warehouses, 70, geo.Coordinates{})
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	require.Equal(t, "wh-1", allocations[0].WarehouseID)
	require.Equal(t, 50, allocations[0].Quantity)
	require.Equal(t, "wh-2", allocations[1].WarehouseID)
	require.Equal(t, 20, allocations[1].Quantity)
}

func TestPlanInsufficientStock(t *testing.T) {
	engine := NewEngine(testConfig)
	warehouses := []Warehouse{warehouseAt("wh-1", 1, 10)}

	allocations, err := engine.Plan(warehouses, 100, geo.Coordinates{})
	require.Nil(t, allocations)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 90, insufficient.Shortfall)
}

func TestPlanSkipsEmptyWarehouses(t *testing.T) {
	engine := NewEngine(testConfig)
	warehouses := []Warehouse{
		warehouseAt("wh-1", 1, 0),
		warehouseAt("wh-2", 2, 100),
	}

	allocations, err := engine.Plan(warehouses, 50, geo.Coordinates{})
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	require.Equal(t, "wh-2", allocations[0].WarehouseID)
}

func TestPlanCoversExactQuantity(t *testing.T) {
	engine := NewEngine(testConfig)
	warehouses := []Warehouse{
		warehouseAt("wh-1", 3, 40),
		warehouseAt("wh-2", 1, 25),
		warehouseAt("wh-3", 2, 60),
	}

	allocations, err := engine.Plan(warehouses, 90, geo.Coordinates{})
	require.NoError(t, err)

	total := 0
	for _, alloc := range allocations {
		total += alloc.Quantity
	}
	require.Equal(t, 90, total)
}

func TestPlanOrdersByPerUnitCost(t *testing.T) {
	engine := NewEngine(testConfig)
	warehouses := []Warehouse{
		warehouseAt("far", 40, 10),
		warehouseAt("near", 5, 10),
		warehouseAt("mid", 20, 10),
	}

	allocations, err := engine.Plan(warehouses, 30, geo.Coordinates{})
	require.NoError(t, err)
	require.Equal(t, []string{"near", "mid", "far"}, []string{
		allocations[0].WarehouseID, allocations[1].WarehouseID, allocations[2].WarehouseID,
	})
	for i := 1; i < len(allocations); i++ {
		prev := allocations[i-1].ShippingCost / float64(allocations[i-1].Quantity)
		cur := allocations[i].ShippingCost / float64(allocations[i].Quantity)
		require.LessOrEqual(t, prev, cur)
	}
}

func TestPlanTieBreakKeepsInputOrder(t *testing.T) {
	engine := NewEngine(testConfig)
	// Identical locations mean identical per-unit cost.
	warehouses := []Warehouse{
		warehouseAt("first", 7, 10),
		warehouseAt("second", 7, 10),
	}

	allocations, err := engine.Plan(warehouses, 15, geo.Coordinates{})
	require.NoError(t, err)
	require.Equal(t, "first", allocations[0].WarehouseID)
	require.Equal(t, 10, allocations[0].Quantity)
	require.Equal(t, "second", allocations[1].WarehouseID)
	require.Equal(t, 5, allocations[1].Quantity)
}

func TestTotalStock(t *testing.T) {
	warehouses := []Warehouse{
		warehouseAt("a", 0, 3),
		warehouseAt("b", 0, 0),
		warehouseAt("c", 0, 7),
	}
	require.Equal(t, 10, TotalStock(warehouses))
}
