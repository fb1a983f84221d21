package address

import (
	"context"
	"errors"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Source names where an order's address comes from: an existing address
// or inline fields for a new one. Exactly one must be set.
type Source struct {
	AddressID *string
	Address   *Input
}

// ResolveOrCreate returns the address described by src, creating it when
// src carries inline fields. New addresses are owned by owner, which may be
// nil. With strict set, an existing address must be owned by owner; a nil
// owner never passes, so guests cannot reference stored addresses and must
// send inline address fields. It runs on q so the created row shares the
// caller's transaction.
func (s *Service) ResolveOrCreate(ctx context.Context, q db.Querier, src Source, owner *string, strict bool) (*domain.Address, error) {
	switch {
	case src.AddressID != nil && src.Address != nil:
		return nil, domain.Validation("Provide either addressId or address, not both")
	case src.AddressID == nil && src.Address == nil:
		return nil, domain.Validation("Address is required, either address information or existing addressId")
	}

	if src.AddressID != nil {
		a, err := s.repo.GetByID(ctx, q, *src.AddressID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Address not found by addressId")
		}
		if err != nil {
			return nil, err
		}
		if strict && !a.OwnedBy(owner) {
			return nil, domain.Forbidden("Address does not belong to the customer")
		}
		return a, nil
	}

	if err := src.Address.Validate(); err != nil {
		return nil, err
	}
	return s.insert(ctx, q, owner, *src.Address)
}

// SetDefault makes addressID the customer's only default address.
func (s *Service) SetDefault(ctx context.Context, customerID, addressID string) error {
	return s.db.WithTx(ctx, func(q db.Querier) error {
		if _, err := s.repo.GetForCustomer(ctx, q, customerID, addressID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("Address not found")
			}
			return err
		}
		if err := s.repo.ClearDefault(ctx, q, customerID); err != nil {
			return err
		}
		return s.repo.MarkDefault(ctx, q, addressID)
	})
}

// BlockMutationIfInUse fails with a conflict while an order that is neither
// COMPLETED nor CANCELLED references the address for customerID.
func (s *Service) BlockMutationIfInUse(ctx context.Context, q db.Querier, addressID string, customerID *string) error {
	inUse, err := s.orders.HasActiveForAddress(ctx, q, addressID, customerID)
	if err != nil {
		return err
	}
	if inUse {
		return domain.Conflict("Address is being used in an uncompleted or uncancelled cleaning order")
	}
	return nil
}

func (s *Service) insert(ctx context.Context, q db.Querier, owner *string, in Input) (*domain.Address, error) {
	a := domain.Address{
		ID:         domain.NewID(domain.AddressIDPrefix),
		Street:     in.Street,
		City:       in.City,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		IsDefault:  in.IsDefault && owner != nil,
		CustomerID: owner,
	}
	if a.IsDefault {
		if err := s.repo.ClearDefault(ctx, q, *owner); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, q, a)
}
