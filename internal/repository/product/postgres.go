package product

import (
	"context"
	"errors"
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

func (r *postgresRepo) List(ctx context.Context, categorySlug string, availableOnly bool) ([]domain.Product, error) {
	q := `
SELECT p.id::text, p.category_id::text, p.name, p.slug, COALESCE(p.description, ''), p.price_cents, p.currency, COALESCE(p.product_type, ''), p.stock, p.available, p.featured, p.created_at, p.updated_at
FROM products p
`
	var args []interface{}
	var conds []string
	if categorySlug != "" {
		q += "JOIN categories c ON c.id = p.category_id\n"
		args = append(args, categorySlug)
		conds = append(conds, "c.slug = $1")
	}
	if availableOnly {
		conds = append(conds, "p.available")
	}
	for i, cond := range conds {
		if i == 0 {
			q += "WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += "\nORDER BY p.featured DESC, p.created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list category=%q error=%v", categorySlug, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows category=%q error=%v", categorySlug, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, category_id::text, name, slug, COALESCE(description, ''), price_cents, currency, COALESCE(product_type, ''), stock, available, featured, created_at, updated_at
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%s not found", id)
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	const q = `
SELECT id::text, category_id::text, name, slug, COALESCE(description, ''), price_cents, currency, COALESCE(product_type, ''), stock, available, featured, created_at, updated_at
FROM products
WHERE slug = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get slug=%s not found", slug)
		}
		return nil, err
	}
	return p, nil
}

// Upsert inserts or updates a product by slug. Used by the seed and
// importer tooling, not the request path.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (category_id, name, slug, description, price_cents, currency, product_type, stock, available, featured)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9, $10)
ON CONFLICT (slug) DO UPDATE SET
    category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    product_type = EXCLUDED.product_type,
    stock = EXCLUDED.stock,
    available = EXCLUDED.available,
    featured = EXCLUDED.featured,
    updated_at = now()
RETURNING id::text, created_at, updated_at
`
	out := p
	err := r.pool.QueryRow(ctx, q,
		p.CategoryID,
		p.Name,
		p.Slug,
		p.Description,
		p.PriceCents,
		p.Currency,
		p.ProductType,
		p.Stock,
		p.Available,
		p.Featured,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s", out.Slug, out.ID)
	return &out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.PriceCents,
		&p.Currency,
		&p.ProductType,
		&p.Stock,
		&p.Available,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
