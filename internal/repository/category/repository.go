package category

import (
	"context"

	"buildkit-store/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}
