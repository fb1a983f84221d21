package address

import (
	"context"
	"errors"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	addressrepo "cleaning-crm/internal/repository/address"
	"cleaning-crm/internal/validate"
)

// ActiveOrders reports whether an address is referenced by an unfinished order.
type ActiveOrders interface {
	HasActiveForAddress(ctx context.Context, q db.Querier, addressID string, customerID *string) (bool, error)
}

// Service owns address records and the one-default-per-customer rule.
type Service struct {
	db     db.DB
	repo   addressrepo.Repository
	orders ActiveOrders
}

// New creates a Service.
func New(database db.DB, repo addressrepo.Repository, orders ActiveOrders) *Service {
	return &Service{db: database, repo: repo, orders: orders}
}

// Input carries the fields of a new address.
type Input struct {
	Street     string  `json:"street" validate:"required"`
	City       string  `json:"city" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	PostalCode string  `json:"postalCode" validate:"required"`
	Latitude   *string `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *string `json:"longitude" validate:"omitempty,longitude"`
	IsDefault  bool    `json:"isDefault"`
}

// UpdateInput carries a partial address update. Nil fields are left as is.
type UpdateInput struct {
	Street     *string `json:"street" validate:"omitempty,min=1"`
	City       *string `json:"city" validate:"omitempty,min=1"`
	Country    *string `json:"country" validate:"omitempty,min=1"`
	PostalCode *string `json:"postalCode" validate:"omitempty,min=1"`
	Latitude   *string `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *string `json:"longitude" validate:"omitempty,longitude"`
	IsDefault  *bool   `json:"isDefault"`
}

// Validate checks field rules and that coordinates come in pairs.
func (in Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	return checkCoordinates(in.Latitude, in.Longitude)
}

func checkCoordinates(lat, lng *string) error {
	if (lat == nil) != (lng == nil) {
		return domain.Validation("latitude and longitude must be provided together")
	}
	return nil
}

// ListResult is a page of a customer's addresses plus the current default.
type ListResult struct {
	PaginationResult domain.Page[domain.Address] `json:"paginationResult"`
	DefaultAddress   *domain.Address             `json:"defaultAddress"`
}

// Create stores a new address owned by customerID.
func (s *Service) Create(ctx context.Context, customerID string, in Input) (*domain.Address, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *domain.Address
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		var err error
		out, err = s.insert(ctx, q, &customerID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one of the customer's addresses.
func (s *Service) Get(ctx context.Context, customerID, addressID string) (*domain.Address, error) {
	a, err := s.repo.GetForCustomer(ctx, s.db, customerID, addressID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Address not found")
	}
	return a, err
}

// Update applies a partial update to one of the customer's addresses. It is
// refused while an unfinished order uses the address.
func (s *Service) Update(ctx context.Context, customerID, addressID string, in UpdateInput) (*domain.Address, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out *domain.Address
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		cur, err := s.repo.GetForCustomer(ctx, q, customerID, addressID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Address not found")
		}
		if err != nil {
			return err
		}
		if err := s.BlockMutationIfInUse(ctx, q, addressID, &customerID); err != nil {
			return err
		}

		next := applyUpdate(*cur, in)
		if err := checkCoordinates(next.Latitude, next.Longitude); err != nil {
			return err
		}
		if next.IsDefault && !cur.IsDefault {
			if err := s.repo.ClearDefault(ctx, q, customerID); err != nil {
				return err
			}
		}
		out, err = s.repo.Update(ctx, q, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns a page of the customer's addresses, newest first.
func (s *Service) List(ctx context.Context, customerID string, page, limit int) (*ListResult, error) {
	rows, total, err := s.repo.ListByCustomer(ctx, s.db, customerID, limit, domain.Offset(page, limit))
	if err != nil {
		return nil, err
	}
	def, err := s.repo.GetDefault(ctx, s.db, customerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return &ListResult{
		PaginationResult: domain.Page[domain.Address]{Page: page, Limit: limit, Total: total, Data: rows},
		DefaultAddress:   def,
	}, nil
}

func applyUpdate(a domain.Address, in UpdateInput) domain.Address {
	if in.Street != nil {
		a.Street = *in.Street
	}
	if in.City != nil {
		a.City = *in.City
	}
	if in.Country != nil {
		a.Country = *in.Country
	}
	if in.PostalCode != nil {
		a.PostalCode = *in.PostalCode
	}
	if in.Latitude != nil {
		a.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		a.Longitude = in.Longitude
	}
	if in.IsDefault != nil {
		a.IsDefault = *in.IsDefault
	}
	return a
}
