package order

import (
	"context"

	"buildkit-store/internal/domain"
)

type Repository interface {
	// CreateWithLines persists the order and all its lines as one atomic
	// unit: either everything commits or nothing does.
	CreateWithLines(ctx context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
