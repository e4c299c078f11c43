package session

import (
	"context"

	"buildkit-store/internal/session"
)

type Repository interface {
	Load(ctx context.Context, id string) (session.Data, error)
	Save(ctx context.Context, id string, data session.Data) error
	Delete(ctx context.Context, id string) error
}
