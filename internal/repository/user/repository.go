package user

import (
	"context"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Repository persists and fetches staff users.
type Repository interface {
	Create(ctx context.Context, q db.Querier, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, q db.Querier, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, q db.Querier, email string) (*domain.User, error)
	Update(ctx context.Context, q db.Querier, u domain.User) (*domain.User, error)
	Delete(ctx context.Context, q db.Querier, id string) error
	List(ctx context.Context, q db.Querier, limit, offset int) ([]domain.User, int, error)
}
