package warehouse

import (
	"context"
	"net/http"

	"github.com/noah-isme/scos-orders/internal/allocation"
	"github.com/noah-isme/scos-orders/internal/common"
)

// Lister reads an unlocked warehouse stock snapshot.
type Lister interface {
	ReadWarehouses(ctx context.Context) ([]allocation.Warehouse, error)
}

// Handler exposes the warehouse listing endpoint.
type Handler struct {
	Store Lister
}

type warehouseResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Stock     int     `json:"stock"`
}

// List handles GET /api/v1/warehouses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "warehouse store not configured", nil)
		return
	}
	warehouses, err := h.Store.ReadWarehouses(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list warehouses", nil)
		return
	}
	response := make([]warehouseResponse, 0, len(warehouses))
	for _, wh := range warehouses {
		response = append(response, warehouseResponse{
			ID:        wh.ID,
			Name:      wh.Name,
			Latitude:  wh.Location.Latitude,
			Longitude: wh.Location.Longitude,
			Stock:     wh.Stock,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": response})
}
