package customer

import (
	"context"

	"buildkit-store/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.Customer, error)
}
