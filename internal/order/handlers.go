package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/scos-orders/internal/common"
	"github.com/noah-isme/scos-orders/internal/geo"
)

// Handler exposes HTTP handlers for order endpoints.
type Handler struct {
	Service    *Service
	DeviceName string

	validate *validator.Validate
}

// NewHandler constructs an order handler with request validation wired.
func NewHandler(svc *Service, deviceName string) *Handler {
	return &Handler{
		Service:    svc,
		DeviceName: deviceName,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

type orderRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
	// Pointer so a missing address fails required while the zero
	// coordinate (0,0) stays a valid destination.
	ShippingAddress *geo.Coordinates `json:"shippingAddress" validate:"required"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (orderRequest, bool) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request payload", nil)
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		details := make([]string, 0)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				details = append(details, fe.Namespace()+" failed "+fe.Tag())
			}
		}
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid order request", details)
		return req, false
	}
	return req, true
}

// Verify handles POST /api/v1/orders/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "order service not configured", nil)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	calc, err := h.Service.Verify(r.Context(), req.Quantity, *req.ShippingAddress)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":   calc,
		"device": h.DeviceName,
	})
}

// Create handles POST /api/v1/orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "order service not configured", nil)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, err := h.Service.Create(r.Context(), req.Quantity, *req.ShippingAddress)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": result})
}

// Get handles GET /api/v1/orders/{orderNumber}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "order service not configured", nil)
		return
	}
	number := chi.URLParam(r, "orderNumber")
	ord, err := h.Service.GetByNumber(r.Context(), number)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ord})
}
