package order

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	"cleaning-crm/internal/validate"
	"github.com/shopspring/decimal"
)

// CRMUpdateInput is a partial order update from staff. Nil fields are left
// as stored.
type CRMUpdateInput struct {
	AddressID         *string               `json:"addressId" validate:"omitempty,min=1"`
	CustomerID        *string               `json:"customerId" validate:"omitempty,min=1"`
	CustomerName      *string               `json:"customerName" validate:"omitempty,min=1"`
	CustomerLastname  *string               `json:"customerLastname" validate:"omitempty,min=1"`
	CustomerPhone     *string               `json:"customerPhone" validate:"omitempty,e164"`
	OrderStatus       *domain.OrderStatus   `json:"orderStatus" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	PaymentStatus     *domain.PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	PaymentMethod     *domain.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=CASH TERMINAL CARD"`
	ServiceType       *domain.ServiceType   `json:"serviceType" validate:"omitempty,oneof=REGULAR_CLEANING AFTER_RENOVATION CHEMICAL_CLEANING"`
	Occurance         *domain.Occurance     `json:"occurance" validate:"omitempty,oneof=ONE_TIME RECURRING"`
	ServiceOptions    map[string]bool       `json:"serviceOptions"`
	OrderDetails      json.RawMessage       `json:"orderDetails"`
	AssignedEmployees []string              `json:"assignedEmployees" validate:"omitempty,min=1"`
	AssignedTools     []string              `json:"assignedTools" validate:"omitempty,min=1"`
	OrderReviews      []string              `json:"orderReviews" validate:"omitempty,min=1"`
	Price             *decimal.Decimal      `json:"price" validate:"-"`
	StartTime         *time.Time            `json:"startTime"`
	EndTime           *time.Time            `json:"endTime"`
	CanceledAt        *time.Time            `json:"canceledAt"`
	Comment           *string               `json:"comment" validate:"omitempty,max=255"`
}

// CustomerUpdateInput is the part of an order a customer may change.
type CustomerUpdateInput struct {
	StartTime *time.Time `json:"startTime"`
	Comment   *string    `json:"comment" validate:"omitempty,max=255"`
}

// UpdateForCRM applies a partial update. Moving the order to another
// address is refused while an unfinished order of the same customer still
// uses the current one. Service options accumulate onto the stored ones.
func (s *Service) UpdateForCRM(ctx context.Context, id string, in CRMUpdateInput) (*domain.OrderWithAddress, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return nil, err
		}
	}
	if err := ValidateServiceOptionKeys(in.ServiceOptions); err != nil {
		return nil, err
	}
	var details *domain.OrderDetails
	if in.OrderDetails != nil {
		d, err := parseAndValidateDetails(in.OrderDetails)
		if err != nil {
			return nil, err
		}
		details = &d
	}

	var out *domain.OrderWithAddress
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		cur, err := s.getOrder(ctx, q, id)
		if err != nil {
			return err
		}
		next := *cur

		if in.AddressID != nil && *in.AddressID != cur.AddressID {
			if err := s.store.BlockMutationIfInUse(ctx, q, cur.AddressID, cur.CustomerID); err != nil {
				return err
			}
			if _, err := s.getAddress(ctx, q, *in.AddressID); err != nil {
				return err
			}
			next.AddressID = *in.AddressID
		}
		if in.CustomerID != nil {
			if err := s.requireCustomer(ctx, q, *in.CustomerID); err != nil {
				return err
			}
			next.CustomerID = in.CustomerID
		}

		applyCRMUpdate(&next, in)
		if details != nil {
			next.OrderDetails = *details
		}
		if err := checkTimes(next.StartTime, next.EndTime, next.CanceledAt); err != nil {
			return err
		}

		out, err = s.save(ctx, q, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateForCustomer lets a customer move the start time or change the
// comment of one of their own orders.
func (s *Service) UpdateForCustomer(ctx context.Context, customerID, id string, in CustomerUpdateInput) (*domain.OrderWithAddress, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var out *domain.OrderWithAddress
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		cur, err := s.getOrder(ctx, q, id)
		if err != nil {
			return err
		}
		if !ownedBy(cur, customerID) {
			return domain.Forbidden("Cleaning order does not belong to the customer")
		}
		next := *cur
		if in.StartTime != nil {
			next.StartTime = in.StartTime.UTC()
		}
		if in.Comment != nil {
			next.Comment = trimmed(in.Comment)
		}
		if err := checkTimes(next.StartTime, next.EndTime, next.CanceledAt); err != nil {
			return err
		}
		out, err = s.save(ctx, q, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyCRMUpdate(o *domain.CleaningOrder, in CRMUpdateInput) {
	if in.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerLastname != nil {
		o.CustomerLastname = strings.TrimSpace(*in.CustomerLastname)
	}
	if in.CustomerPhone != nil {
		o.CustomerPhone = strings.TrimSpace(*in.CustomerPhone)
	}
	if in.OrderStatus != nil {
		o.OrderStatus = *in.OrderStatus
	}
	if in.PaymentStatus != nil {
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.ServiceType != nil {
		o.ServiceType = *in.ServiceType
	}
	if in.Occurance != nil {
		o.Occurance = *in.Occurance
	}
	if in.ServiceOptions != nil {
		o.ServiceOptions = MergeServiceOptions(o.ServiceOptions, in.ServiceOptions)
	}
	if in.AssignedEmployees != nil {
		o.AssignedEmployees = in.AssignedEmployees
	}
	if in.AssignedTools != nil {
		o.AssignedTools = in.AssignedTools
	}
	if in.OrderReviews != nil {
		o.OrderReviews = in.OrderReviews
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	if in.StartTime != nil {
		o.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		o.EndTime = utc(in.EndTime)
	}
	if in.CanceledAt != nil {
		o.CanceledAt = utc(in.CanceledAt)
	}
	if in.Comment != nil {
		o.Comment = trimmed(in.Comment)
	}
}

// save writes o and reloads it joined with its address.
func (s *Service) save(ctx context.Context, q db.Querier, o domain.CleaningOrder) (*domain.OrderWithAddress, error) {
	updated, err := s.orders.Update(ctx, q, o)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Updated cleaning order not found")
	}
	if err != nil {
		return nil, err
	}
	addr, err := s.getAddress(ctx, q, updated.AddressID)
	if err != nil {
		return nil, err
	}
	return &domain.OrderWithAddress{Order: *updated, Address: *addr}, nil
}
