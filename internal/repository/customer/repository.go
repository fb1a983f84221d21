package customer

import (
	"context"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, q db.Querier, c domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, q db.Querier, id string) (*domain.Customer, error)
	GetByUsername(ctx context.Context, q db.Querier, username string) (*domain.Customer, error)
	// ExistsAny reports whether a customer already uses any of the given
	// username, email or phone. A nil email is not compared.
	ExistsAny(ctx context.Context, q db.Querier, username string, email *string, phone string) (bool, error)
}
