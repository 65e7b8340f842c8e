package order

import (
	"context"
	"sync"

	"github.com/noah-isme/scos-orders/internal/allocation"
)

// memStore is an in-memory Store with the same transactional contract as
// PostgresStore: InTx serializes against other transactions, writes stage
// until commit, and stock can never go negative.
type memStore struct {
	mu         sync.Mutex
	warehouses []allocation.Warehouse
	byNumber   map[string]Order
	byID       map[string]Order

	// forceDuplicates makes the next N CreateOrder calls fail with
	// ErrDuplicateOrderNumber to exercise the retry path.
	forceDuplicates int
}

func newMemStore(warehouses ...allocation.Warehouse) *memStore {
	return &memStore{
		warehouses: warehouses,
		byNumber:   make(map[string]Order),
		byID:       make(map[string]Order),
	}
}

func (s *memStore) snapshot() []allocation.Warehouse {
	out := make([]allocation.Warehouse, len(s.warehouses))
	copy(out, s.warehouses)
	return out
}

func (s *memStore) ReadWarehouses(ctx context.Context) ([]allocation.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, warehouses: s.snapshot()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.warehouses = tx.warehouses
	for _, o := range tx.created {
		s.byNumber[o.OrderNumber] = o
		s.byID[o.ID] = o
	}
	return nil
}

func (s *memStore) FindOrderByNumber(ctx context.Context, number string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byNumber[number]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *memStore) FindOrderByID(ctx context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *memStore) totalStock() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return allocation.TotalStock(s.warehouses)
}

type memTx struct {
	store      *memStore
	warehouses []allocation.Warehouse
	created    []Order
}

func (t *memTx) LockWarehouses(ctx context.Context) ([]allocation.Warehouse, error) {
	out := make([]allocation.Warehouse, len(t.warehouses))
	copy(out, t.warehouses)
	return out, nil
}

func (t *memTx) CreateOrder(ctx context.Context, o Order) error {
	if t.store.forceDuplicates > 0 {
		t.store.forceDuplicates--
		return ErrDuplicateOrderNumber
	}
	if _, exists := t.store.byNumber[o.OrderNumber]; exists {
		return ErrDuplicateOrderNumber
	}
	t.created = append(t.created, o)
	return nil
}

func (t *memTx) CreateAllocation(ctx context.Context, orderID string, alloc allocation.Allocation) error {
	for i := range t.created {
		if t.created[i].ID == orderID {
			t.created[i].Allocations = append(t.created[i].Allocations, alloc)
			return nil
		}
	}
	return ErrNotFound
}

func (t *memTx) DecrementStock(ctx context.Context, warehouseID string, quantity int) error {
	for i := range t.warehouses {
		if t.warehouses[i].ID == warehouseID {
			if t.warehouses[i].Stock < quantity {
				return ErrStockConflict
			}
			t.warehouses[i].Stock -= quantity
			return nil
		}
	}
	return ErrStockConflict
}
