package order

import (
	"context"
	"errors"

	"github.com/noah-isme/scos-orders/internal/allocation"
)

// Sentinel errors surfaced by Store implementations.
var (
	// ErrDuplicateOrderNumber reports an order-number unique violation.
	// The surrounding transaction is dead; callers retry from scratch
	// with a fresh number.
	ErrDuplicateOrderNumber = errors.New("order number already exists")

	// ErrStockConflict reports a decrement that would drive stock
	// negative. Under row locks this means the allocation plan no longer
	// matches reality and the transaction must abort.
	ErrStockConflict = errors.New("stock decrement would go negative")

	// ErrTxConflict reports an infrastructure-level serialization or lock
	// failure. The whole commit may be retried with a fresh snapshot.
	ErrTxConflict = errors.New("transaction conflict")

	// ErrNotFound reports a missed order lookup.
	ErrNotFound = errors.New("order not found")
)

// Store is the storage contract the orchestrator depends on. Warehouse stock
// is only ever written through InTx; reads outside a transaction are
// advisory snapshots.
type Store interface {
	// ReadWarehouses returns an unlocked stock snapshot.
	ReadWarehouses(ctx context.Context) ([]allocation.Warehouse, error)

	// InTx runs fn within one transaction. A non-nil error from fn rolls
	// everything back.
	InTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error

	// FindOrderByNumber loads a committed order with its allocations.
	FindOrderByNumber(ctx context.Context, number string) (Order, error)

	// FindOrderByID loads a committed order with its allocations.
	FindOrderByID(ctx context.Context, id string) (Order, error)
}

// TxStore exposes the write operations available inside a transaction.
type TxStore interface {
	// LockWarehouses acquires row locks on every warehouse in a stable
	// order and returns the authoritative stock snapshot. Concurrent
	// lockers block until the holding transaction finishes.
	LockWarehouses(ctx context.Context) ([]allocation.Warehouse, error)

	// CreateOrder persists the order row.
	CreateOrder(ctx context.Context, o Order) error

	// CreateAllocation persists one allocation child row.
	CreateAllocation(ctx context.Context, orderID string, alloc allocation.Allocation) error

	// DecrementStock subtracts quantity from a warehouse, failing with
	// ErrStockConflict rather than going negative.
	DecrementStock(ctx context.Context, warehouseID string, quantity int) error
}
