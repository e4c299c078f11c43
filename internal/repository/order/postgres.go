package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"buildkit-store/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) CreateWithLines(ctx context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, errors.New("order requires at least one line")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const orderQuery = `
INSERT INTO orders (customer_id, first_name, last_name, email, phone_number, region, address, city, postal_code, delivery_method, delivery_cost_cents, paid, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id::text, created_at, updated_at
`
	created := order
	if err := tx.QueryRow(ctx, orderQuery,
		order.CustomerID,
		order.FirstName,
		order.LastName,
		order.Email,
		order.PhoneNumber,
		order.Region,
		order.Address,
		order.City,
		order.PostalCode,
		order.DeliveryMethod,
		order.DeliveryCostCents,
		order.Paid,
		order.Status,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		r.logger.Printf("order repo: insert order error=%v", err)
		return nil, fmt.Errorf("insert order: %w", err)
	}

	const lineQuery = `
INSERT INTO order_lines (order_id, product_id, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at
`
	created.Lines = make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		out := line
		out.OrderID = created.ID
		if err := tx.QueryRow(ctx, lineQuery, created.ID, line.ProductID, line.UnitPriceCents, line.Quantity).Scan(&out.ID, &out.CreatedAt); err != nil {
			r.logger.Printf("order repo: insert line order_id=%s product_id=%s error=%v", created.ID, line.ProductID, err)
			return nil, fmt.Errorf("insert order line: %w", err)
		}
		created.Lines = append(created.Lines, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	r.logger.Printf("order repo: created order id=%s lines=%d", created.ID, len(created.Lines))
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, first_name, last_name, email, COALESCE(phone_number, ''), region, address, city, COALESCE(postal_code, ''), delivery_method, delivery_cost_cents, paid, status, created_at, updated_at
FROM orders
WHERE id = $1
`
	order, err := r.scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, first_name, last_name, email, COALESCE(phone_number, ''), region, address, city, COALESCE(postal_code, ''), delivery_method, delivery_cost_cents, paid, status, created_at, updated_at
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		lines, err := r.loadLines(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Lines = lines
	}
	return result, nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var customerID *string
	err := row.Scan(
		&order.ID,
		&customerID,
		&order.FirstName,
		&order.LastName,
		&order.Email,
		&order.PhoneNumber,
		&order.Region,
		&order.Address,
		&order.City,
		&order.PostalCode,
		&order.DeliveryMethod,
		&order.DeliveryCostCents,
		&order.Paid,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	order.CustomerID = customerID
	return &order, nil
}

func (r *postgresRepo) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, unit_price_cents, quantity, created_at
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.UnitPriceCents, &line.Quantity, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
