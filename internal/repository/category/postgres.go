package category

import (
	"context"
	"errors"

	"buildkit-store/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, name, slug, COALESCE(service_type, ''), COALESCE(description, ''), display_order, featured, created_at
FROM categories
ORDER BY display_order ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ServiceType, &c.Description, &c.DisplayOrder, &c.Featured, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const q = `
SELECT id::text, name, slug, COALESCE(service_type, ''), COALESCE(description, ''), display_order, featured, created_at
FROM categories
WHERE slug = $1
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.ServiceType, &c.Description, &c.DisplayOrder, &c.Featured, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Upsert inserts or updates a category by slug. Used by the seed and
// importer tooling, not the request path.
func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug, service_type, description, display_order, featured)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    service_type = EXCLUDED.service_type,
    description = EXCLUDED.description,
    display_order = EXCLUDED.display_order,
    featured = EXCLUDED.featured
RETURNING id::text, created_at
`
	out := c
	err := r.pool.QueryRow(ctx, q,
		c.Name,
		c.Slug,
		c.ServiceType,
		c.Description,
		c.DisplayOrder,
		c.Featured,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
