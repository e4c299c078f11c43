package customer

import (
	"context"
	"errors"
	"io"
	"log"

	"buildkit-store/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *postgresRepo) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (username, first_name, last_name, email, phone_number, password_hash)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
	created := customer
	err := r.pool.QueryRow(ctx, q,
		customer.Username,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.PhoneNumber,
		customer.PasswordHash,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Printf("customer repo: create username=%s conflict", customer.Username)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("customer repo: create username=%s error=%v", customer.Username, err)
		return nil, err
	}
	r.logger.Printf("customer repo: created username=%s id=%s", created.Username, created.ID)
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT id::text, username, COALESCE(first_name, ''), COALESCE(last_name, ''), email, phone_number, password_hash, created_at
FROM customers
WHERE id = $1
`
	return r.fetch(ctx, q, id)
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	const q = `
SELECT id::text, username, COALESCE(first_name, ''), COALESCE(last_name, ''), email, phone_number, password_hash, created_at
FROM customers
WHERE username = $1
`
	return r.fetch(ctx, q, username)
}

func (r *postgresRepo) GetByPhone(ctx context.Context, phoneNumber string) (*domain.Customer, error) {
	const q = `
SELECT id::text, username, COALESCE(first_name, ''), COALESCE(last_name, ''), email, phone_number, password_hash, created_at
FROM customers
WHERE phone_number = $1
`
	return r.fetch(ctx, q, phoneNumber)
}

func (r *postgresRepo) fetch(ctx context.Context, query, arg string) (*domain.Customer, error) {
	var c domain.Customer
	var phone *string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID,
		&c.Username,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&phone,
		&c.PasswordHash,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.PhoneNumber = phone
	return &c, nil
}
