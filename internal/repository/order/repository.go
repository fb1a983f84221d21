package order

import (
	"context"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// SortField is a whitelisted order column for listings.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortStartTime SortField = "startTime"
	SortEndTime   SortField = "endTime"
	SortPrice     SortField = "price"
)

// ListFilter narrows and orders a listing. Empty fields do not filter.
type ListFilter struct {
	CustomerID *string
	Status     domain.OrderStatus
	SortField  SortField
	Descending bool
	Limit      int
	Offset     int
}

// Repository persists and fetches cleaning orders.
type Repository interface {
	Create(ctx context.Context, q db.Querier, o domain.CleaningOrder) (*domain.CleaningOrder, error)
	GetByID(ctx context.Context, q db.Querier, id string) (*domain.CleaningOrder, error)
	Update(ctx context.Context, q db.Querier, o domain.CleaningOrder) (*domain.CleaningOrder, error)
	Delete(ctx context.Context, q db.Querier, id string) error
	List(ctx context.Context, q db.Querier, f ListFilter) ([]domain.CleaningOrder, int, error)
	// HasActiveForAddress reports whether an order that is neither COMPLETED
	// nor CANCELLED references the address for the given customer. A nil
	// customer matches orders without a customer.
	HasActiveForAddress(ctx context.Context, q db.Querier, addressID string, customerID *string) (bool, error)
}
