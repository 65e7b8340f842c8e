package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/scos-orders/internal/allocation"
	"github.com/noah-isme/scos-orders/internal/geo"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

const selectWarehouses = `SELECT id, name, latitude, longitude, stock FROM warehouses ORDER BY name`

// Locking in name order keeps concurrent commits from deadlocking on
// overlapping warehouse sets.
const selectWarehousesForUpdate = selectWarehouses + ` FOR UPDATE`

// ReadWarehouses returns an unlocked stock snapshot.
func (s *PostgresStore) ReadWarehouses(ctx context.Context) ([]allocation.Warehouse, error) {
	rows, err := s.Pool.Query(ctx, selectWarehouses)
	if err != nil {
		return nil, fmt.Errorf("read warehouses: %w", err)
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

// InTx runs fn within a single transaction, rolling back on error.
func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return classifyTxErr(err)
	}
	return classifyTxErr(tx.Commit(ctx))
}

// classifyTxErr maps serialization and deadlock failures onto ErrTxConflict
// so callers can treat them as retryable.
func classifyTxErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", ErrTxConflict, pgErr.Message)
		}
	}
	return err
}

// FindOrderByNumber loads a committed order with its allocations.
func (s *PostgresStore) FindOrderByNumber(ctx context.Context, number string) (Order, error) {
	return s.findOrder(ctx, "order_number", number)
}

// FindOrderByID loads a committed order with its allocations.
func (s *PostgresStore) FindOrderByID(ctx context.Context, id string) (Order, error) {
	return s.findOrder(ctx, "id", id)
}

func (s *PostgresStore) findOrder(ctx context.Context, column, value string) (Order, error) {
	query := fmt.Sprintf(`SELECT id, order_number, quantity, shipping_latitude, shipping_longitude,
		subtotal, discount, discount_amount, shipping_cost, total, status, created_at, updated_at
		FROM orders WHERE %s = $1`, column)

	var o Order
	err := s.Pool.QueryRow(ctx, query, value).Scan(
		&o.ID, &o.OrderNumber, &o.Quantity,
		&o.ShippingLocation.Latitude, &o.ShippingLocation.Longitude,
		&o.Subtotal, &o.Discount, &o.DiscountAmount, &o.ShippingCost, &o.Total,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("find order: %w", err)
	}

	rows, err := s.Pool.Query(ctx, `SELECT a.warehouse_id, w.name, a.quantity, a.distance_km, a.shipping_cost
		FROM order_allocations a
		JOIN warehouses w ON w.id = a.warehouse_id
		WHERE a.order_id = $1
		ORDER BY a.position`, o.ID)
	if err != nil {
		return Order{}, fmt.Errorf("load allocations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var alloc allocation.Allocation
		if err := rows.Scan(&alloc.WarehouseID, &alloc.WarehouseName, &alloc.Quantity, &alloc.DistanceKm, &alloc.ShippingCost); err != nil {
			return Order{}, fmt.Errorf("scan allocation: %w", err)
		}
		o.Allocations = append(o.Allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return Order{}, err
	}
	return o, nil
}

type pgTx struct {
	tx       pgx.Tx
	position int
}

func (t *pgTx) LockWarehouses(ctx context.Context) ([]allocation.Warehouse, error) {
	rows, err := t.tx.Query(ctx, selectWarehousesForUpdate)
	if err != nil {
		return nil, fmt.Errorf("lock warehouses: %w", err)
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

func (t *pgTx) CreateOrder(ctx context.Context, o Order) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO orders
		(id, order_number, quantity, shipping_latitude, shipping_longitude,
		 subtotal, discount, discount_amount, shipping_cost, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.OrderNumber, o.Quantity,
		o.ShippingLocation.Latitude, o.ShippingLocation.Longitude,
		o.Subtotal, o.Discount, o.DiscountAmount, o.ShippingCost, o.Total,
		o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (t *pgTx) CreateAllocation(ctx context.Context, orderID string, alloc allocation.Allocation) error {
	t.position++
	_, err := t.tx.Exec(ctx, `INSERT INTO order_allocations
		(order_id, warehouse_id, position, quantity, distance_km, shipping_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		orderID, alloc.WarehouseID, t.position, alloc.Quantity, alloc.DistanceKm, alloc.ShippingCost,
	)
	if err != nil {
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

func (t *pgTx) DecrementStock(ctx context.Context, warehouseID string, quantity int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE warehouses SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
		warehouseID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStockConflict
	}
	return nil
}

func scanWarehouses(rows pgx.Rows) ([]allocation.Warehouse, error) {
	var warehouses []allocation.Warehouse
	for rows.Next() {
		var wh allocation.Warehouse
		var loc geo.Coordinates
		if err := rows.Scan(&wh.ID, &wh.Name, &loc.Latitude, &loc.Longitude, &wh.Stock); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		wh.Location = loc
		warehouses = append(warehouses, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return warehouses, nil
}
