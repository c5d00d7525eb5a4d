package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetClient(ctx context.Context, clientID string) (domain.InstitutionalClient, error) {
	const query = `SELECT id, name, created_at FROM institutional_clients WHERE id = $1`

	var c domain.InstitutionalClient
	err := r.queryRow(ctx, query, clientID).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.InstitutionalClient{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.InstitutionalClient{}, domain.ErrClientNotFound
		}
		return domain.InstitutionalClient{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *OrderRepository) CreateClient(ctx context.Context, client domain.InstitutionalClient) error {
	const stmt = `
INSERT INTO institutional_clients (id, name, created_at)
VALUES ($1, $2, $3)`

	_, err := r.exec(ctx, stmt, client.ID, client.Name, client.CreatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *OrderRepository) ListClients(ctx context.Context) ([]domain.InstitutionalClient, error) {
	const query = `SELECT id, name, created_at FROM institutional_clients ORDER BY created_at, id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.InstitutionalClient
	for rows.Next() {
		var c domain.InstitutionalClient
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// CreateOrder inserts the order row and every item row. Callers run it
// inside WithTx so the aggregate lands all-or-nothing.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const orderStmt = `
INSERT INTO orders (id, client_id, order_date, subtotal, tax, total, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, orderStmt,
		order.ID,
		order.ClientID,
		order.OrderDate,
		order.Subtotal,
		order.Tax,
		order.Total,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}

	const itemStmt = `
INSERT INTO order_items (id, order_id, position, product_id, product_name, quantity, unit_price, subtotal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, item := range order.Items {
		_, err := r.exec(ctx, itemStmt,
			item.ID,
			order.ID,
			i,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("create order item %d: %w", i, err)
		}
	}
	return nil
}

// GetOrder reconstructs the order aggregate, items in creation order.
func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const orderQuery = `
SELECT id, client_id, order_date, subtotal, tax, total, status, created_at, updated_at
FROM orders
WHERE id = $1`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, orderQuery, orderID).Scan(
		&o.ID,
		&o.ClientID,
		&o.OrderDate,
		&o.Subtotal,
		&o.Tax,
		&o.Total,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)

	const itemsQuery = `
SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
FROM order_items
WHERE order_id = $1
ORDER BY position`

	rows, err := r.query(ctx, itemsQuery, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		); err != nil {
			return domain.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("get order items: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
