package address

import (
	"context"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Repository persists and fetches addresses. Every method runs on the
// supplied querier so callers can compose it into a transaction.
type Repository interface {
	Create(ctx context.Context, q db.Querier, a domain.Address) (*domain.Address, error)
	GetByID(ctx context.Context, q db.Querier, id string) (*domain.Address, error)
	GetForCustomer(ctx context.Context, q db.Querier, customerID, id string) (*domain.Address, error)
	GetDefault(ctx context.Context, q db.Querier, customerID string) (*domain.Address, error)
	Update(ctx context.Context, q db.Querier, a domain.Address) (*domain.Address, error)
	ClearDefault(ctx context.Context, q db.Querier, customerID string) error
	MarkDefault(ctx context.Context, q db.Querier, id string) error
	ListByCustomer(ctx context.Context, q db.Querier, customerID string, limit, offset int) ([]domain.Address, int, error)
}
