package catalog

import (
	"context"

	"buildkit-store/internal/domain"
	categoryrepo "buildkit-store/internal/repository/category"
	productrepo "buildkit-store/internal/repository/product"
)

type Service struct {
	categories categoryrepo.Repository
	products   productrepo.Repository
}

func New(categories categoryrepo.Repository, products productrepo.Repository) *Service {
	return &Service{categories: categories, products: products}
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Products lists available products, optionally scoped to one category.
func (s *Service) Products(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	if categorySlug != "" {
		if _, err := s.categories.GetBySlug(ctx, categorySlug); err != nil {
			return nil, err
		}
	}
	return s.products.List(ctx, categorySlug, true)
}

func (s *Service) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *Service) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}
