package order

import (
	"context"
	"errors"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	orderrepo "cleaning-crm/internal/repository/order"
)

// CRMFilter narrows the staff order listing.
type CRMFilter struct {
	CustomerID *string
	Status     domain.OrderStatus
	SortField  orderrepo.SortField
	Ascending  bool
}

// Get returns any order with its address.
func (s *Service) Get(ctx context.Context, id string) (*domain.OrderWithAddress, error) {
	o, err := s.getOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return s.withAddress(ctx, s.db, *o)
}

// GetForCustomer returns one of the customer's orders.
func (s *Service) GetForCustomer(ctx context.Context, customerID, id string) (*domain.OrderWithAddress, error) {
	o, err := s.getOrder(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !ownedBy(o, customerID) {
		return nil, domain.Forbidden("Cleaning order does not belong to the customer")
	}
	return s.withAddress(ctx, s.db, *o)
}

// ListForCustomer returns the customer's orders, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string, page, limit int) (*domain.Page[domain.OrderWithAddress], error) {
	return s.list(ctx, orderrepo.ListFilter{
		CustomerID: &customerID,
		SortField:  orderrepo.SortCreatedAt,
		Descending: true,
	}, page, limit)
}

// ListForCRM returns orders matching f. Sorting defaults to newest first.
func (s *Service) ListForCRM(ctx context.Context, f CRMFilter, page, limit int) (*domain.Page[domain.OrderWithAddress], error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.Validation("Invalid status")
	}
	field := f.SortField
	switch field {
	case "":
		field = orderrepo.SortCreatedAt
	case orderrepo.SortCreatedAt, orderrepo.SortStartTime, orderrepo.SortEndTime, orderrepo.SortPrice:
	default:
		return nil, domain.Validation("Invalid sort")
	}
	return s.list(ctx, orderrepo.ListFilter{
		CustomerID: f.CustomerID,
		Status:     f.Status,
		SortField:  field,
		Descending: !f.Ascending,
	}, page, limit)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.orders.Delete(ctx, s.db, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Cleaning order not found")
	}
	return err
}

func (s *Service) list(ctx context.Context, f orderrepo.ListFilter, page, limit int) (*domain.Page[domain.OrderWithAddress], error) {
	f.Limit = limit
	f.Offset = domain.Offset(page, limit)
	rows, total, err := s.orders.List(ctx, s.db, f)
	if err != nil {
		return nil, err
	}
	data := make([]domain.OrderWithAddress, 0, len(rows))
	for _, o := range rows {
		full, err := s.withAddress(ctx, s.db, o)
		if err != nil {
			return nil, err
		}
		data = append(data, *full)
	}
	return &domain.Page[domain.OrderWithAddress]{Page: page, Limit: limit, Total: total, Data: data}, nil
}

func (s *Service) getOrder(ctx context.Context, q db.Querier, id string) (*domain.CleaningOrder, error) {
	o, err := s.orders.GetByID(ctx, q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Cleaning order not found")
	}
	return o, err
}

func (s *Service) getAddress(ctx context.Context, q db.Querier, id string) (*domain.Address, error) {
	a, err := s.addresses.GetByID(ctx, q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Address not found")
	}
	return a, err
}

func (s *Service) withAddress(ctx context.Context, q db.Querier, o domain.CleaningOrder) (*domain.OrderWithAddress, error) {
	a, err := s.getAddress(ctx, q, o.AddressID)
	if err != nil {
		return nil, err
	}
	return &domain.OrderWithAddress{Order: o, Address: *a}, nil
}

func ownedBy(o *domain.CleaningOrder, customerID string) bool {
	return o.CustomerID != nil && *o.CustomerID == customerID
}
