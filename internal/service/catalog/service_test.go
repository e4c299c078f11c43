package catalog

import (
	"context"
	"errors"
	"testing"

	"buildkit-store/internal/domain"
)

type stubCategoryRepo struct {
	categories []domain.Category
}

func (s *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.categories = append(s.categories, c)
	return &c, nil
}

type stubProductRepo struct {
	products          []domain.Product
	lastCategorySlug  string
	lastAvailableOnly bool
}

func (s *stubProductRepo) List(_ context.Context, categorySlug string, availableOnly bool) ([]domain.Product, error) {
	s.lastCategorySlug = categorySlug
	s.lastAvailableOnly = availableOnly
	return s.products, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.products = append(s.products, p)
	return &p, nil
}

func TestProductsFiltersAvailableOnly(t *testing.T) {
	products := &stubProductRepo{products: []domain.Product{{ID: "p1", Slug: "cement"}}}
	svc := New(&stubCategoryRepo{}, products)

	result, err := svc.Products(context.Background(), "")
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result))
	}
	if !products.lastAvailableOnly {
		t.Fatal("storefront listing must only show available products")
	}
}

func TestProductsValidatesCategorySlug(t *testing.T) {
	categories := &stubCategoryRepo{categories: []domain.Category{{Slug: "building-materials"}}}
	products := &stubProductRepo{}
	svc := New(categories, products)

	if _, err := svc.Products(context.Background(), "building-materials"); err != nil {
		t.Fatalf("known category: %v", err)
	}
	if products.lastCategorySlug != "building-materials" {
		t.Fatalf("expected category passed through, got %q", products.lastCategorySlug)
	}

	if _, err := svc.Products(context.Background(), "no-such"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestProductBySlug(t *testing.T) {
	products := &stubProductRepo{products: []domain.Product{{ID: "p1", Slug: "cement", Name: "Cement"}}}
	svc := New(&stubCategoryRepo{}, products)

	p, err := svc.ProductBySlug(context.Background(), "cement")
	if err != nil {
		t.Fatalf("ProductBySlug: %v", err)
	}
	if p.Name != "Cement" {
		t.Fatalf("unexpected product %+v", p)
	}

	if _, err := svc.ProductBySlug(context.Background(), "no-such"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
