package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scos-orders/internal/allocation"
	"github.com/noah-isme/scos-orders/internal/common"
	"github.com/noah-isme/scos-orders/internal/geo"
	"github.com/noah-isme/scos-orders/internal/obs"
	"github.com/noah-isme/scos-orders/internal/pricing"
)

// Service orchestrates order verification and commit. It is the only writer
// of warehouse stock; the allocation and pricing engines it drives are pure.
type Service struct {
	Store             Store
	Alloc             allocation.Engine
	Price             pricing.Engine
	Log               zerolog.Logger
	MaxNumberAttempts int
}

// Verify prices an order against an advisory stock snapshot without side
// effects. Validation outcomes are reported on the calculation itself; only
// infrastructure failures return an error.
func (s *Service) Verify(ctx context.Context, quantity int, destination geo.Coordinates) (Calculation, error) {
	warehouses, err := s.Store.ReadWarehouses(ctx)
	if err != nil {
		return Calculation{}, err
	}
	return s.compute(warehouses, quantity, destination), nil
}

// Create commits an order. Stock is re-read under row locks and the whole
// calculation re-run against that snapshot, so a stale verify can never be
// committed. Order-number collisions retry the entire transaction, bounded
// by MaxNumberAttempts.
func (s *Service) Create(ctx context.Context, quantity int, destination geo.Coordinates) (CreateResult, error) {
	attempts := s.MaxNumberAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		result, err := s.createOnce(ctx, quantity, destination)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrDuplicateOrderNumber) && attempt < attempts {
			s.Log.Warn().Int("attempt", attempt).Msg("order number collision, retrying")
			continue
		}
		return CreateResult{}, err
	}
}

func (s *Service) createOnce(ctx context.Context, quantity int, destination geo.Coordinates) (CreateResult, error) {
	var result CreateResult
	err := s.Store.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		warehouses, err := tx.LockWarehouses(ctx)
		if err != nil {
			return err
		}
		calc := s.compute(warehouses, quantity, destination)
		if !calc.IsValid {
			return common.RejectedError(calc.rejectCode, calc.InvalidReason)
		}

		now := time.Now().UTC()
		o := Order{
			ID:               uuid.NewString(),
			OrderNumber:      newOrderNumber(now),
			Quantity:         calc.Quantity,
			ShippingLocation: destination,
			Subtotal:         calc.Subtotal,
			Discount:         calc.Discount,
			DiscountAmount:   calc.DiscountAmount,
			ShippingCost:     calc.ShippingCost,
			Total:            calc.Total,
			Status:           StatusCompleted,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		for _, alloc := range calc.Allocations {
			if err := tx.CreateAllocation(ctx, o.ID, alloc); err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, alloc.WarehouseID, alloc.Quantity); err != nil {
				return err
			}
		}
		result = CreateResult{OrderID: o.ID, OrderNumber: o.OrderNumber, Calculation: calc}
		return nil
	})
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			obs.OrderRejected(appErr.Code)
			return CreateResult{}, err
		}
		if errors.Is(err, ErrStockConflict) || errors.Is(err, ErrTxConflict) {
			obs.OrderRejected(common.CodeTxConflict)
			return CreateResult{}, common.ConflictError("warehouse stock changed during commit", err)
		}
		return CreateResult{}, err
	}

	obs.OrderCreated()
	s.Log.Info().
		Str("order_id", result.OrderID).
		Str("order_number", result.OrderNumber).
		Int("quantity", quantity).
		Float64("total", result.Calculation.Total).
		Msg("order created")
	return result, nil
}

// GetByNumber loads a committed order by its human-readable number.
func (s *Service) GetByNumber(ctx context.Context, number string) (Order, error) {
	o, err := s.Store.FindOrderByNumber(ctx, number)
	if errors.Is(err, ErrNotFound) {
		return Order{}, common.NotFoundError("order not found")
	}
	return o, err
}

// GetByID loads a committed order by id.
func (s *Service) GetByID(ctx context.Context, id string) (Order, error) {
	o, err := s.Store.FindOrderByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Order{}, common.NotFoundError("order not found")
	}
	return o, err
}

// compute runs the full allocation-and-pricing pipeline over an in-memory
// snapshot. It is deterministic and shared verbatim by Verify and Create so
// both paths agree on semantics.
func (s *Service) compute(warehouses []allocation.Warehouse, quantity int, destination geo.Coordinates) Calculation {
	if allocation.TotalStock(warehouses) < quantity {
		return invalidCalculation(quantity, common.CodeInsufficientStock, "insufficient stock available")
	}

	allocations, err := s.Alloc.Plan(warehouses, quantity, destination)
	if err != nil {
		var insufficient *allocation.InsufficientStockError
		if errors.As(err, &insufficient) {
			return invalidCalculation(quantity, common.CodeAllocationFailed, insufficient.Error())
		}
		return invalidCalculation(quantity, common.CodeAllocationFailed, "allocation failed")
	}

	summary := s.Price.Quote(quantity, allocations)
	calc := Calculation{
		Quantity:       summary.Quantity,
		Subtotal:       summary.Subtotal,
		Discount:       summary.Discount,
		DiscountAmount: summary.DiscountAmount,
		ShippingCost:   summary.ShippingCost,
		Total:          summary.Total,
		Allocations:    allocations,
		IsValid:        true,
	}

	orderAmount := summary.Subtotal - summary.DiscountAmount
	if !s.Price.IsShippingValid(summary.ShippingCost, orderAmount) {
		calc.IsValid = false
		calc.rejectCode = common.CodeShippingCapExceeded
		calc.InvalidReason = fmt.Sprintf("shipping cost (%.2f) exceeds the maximum of %.2f for this order amount",
			summary.ShippingCost, s.Price.MaxShipping(orderAmount))
	}
	return calc
}

func invalidCalculation(quantity int, code, reason string) Calculation {
	return Calculation{
		Quantity:      quantity,
		Allocations:   []allocation.Allocation{},
		IsValid:       false,
		InvalidReason: reason,
		rejectCode:    code,
	}
}
