package order

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	addressrepo "cleaning-crm/internal/repository/address"
	customerrepo "cleaning-crm/internal/repository/customer"
	orderrepo "cleaning-crm/internal/repository/order"
	addresssvc "cleaning-crm/internal/service/address"
	"cleaning-crm/internal/validate"
	"github.com/shopspring/decimal"
)

// AddressStore resolves order addresses and guards address reassignment.
type AddressStore interface {
	ResolveOrCreate(ctx context.Context, q db.Querier, src addresssvc.Source, owner *string, strict bool) (*domain.Address, error)
	BlockMutationIfInUse(ctx context.Context, q db.Querier, addressID string, customerID *string) error
}

// Service runs the cleaning order workflows.
type Service struct {
	db        db.DB
	orders    orderrepo.Repository
	addresses addressrepo.Repository
	customers customerrepo.Repository
	store     AddressStore
}

// New creates a Service.
func New(database db.DB, orders orderrepo.Repository, addresses addressrepo.Repository, customers customerrepo.Repository, store AddressStore) *Service {
	return &Service{
		db:        database,
		orders:    orders,
		addresses: addresses,
		customers: customers,
		store:     store,
	}
}

// GuestCustomer identifies a customer ordering without an account.
type GuestCustomer struct {
	Name     string `json:"name" validate:"required"`
	Lastname string `json:"lastname" validate:"required"`
	Phone    string `json:"phone" validate:"required,e164"`
}

// CustomerCreateInput is an order placed from the customer-facing API.
type CustomerCreateInput struct {
	AddressID      *string              `json:"addressId" validate:"omitempty,min=1"`
	Address        *addresssvc.Input    `json:"address" validate:"omitempty"`
	GuestCustomer  *GuestCustomer       `json:"guestCustomer" validate:"omitempty"`
	StartTime      *time.Time           `json:"startTime" validate:"required"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH TERMINAL CARD"`
	ServiceType    domain.ServiceType   `json:"serviceType" validate:"required,oneof=REGULAR_CLEANING AFTER_RENOVATION CHEMICAL_CLEANING"`
	ServiceOptions map[string]bool      `json:"serviceOptions" validate:"required"`
	Occurance      domain.Occurance     `json:"occurance" validate:"required,oneof=ONE_TIME RECURRING"`
	OrderDetails   json.RawMessage      `json:"orderDetails" validate:"required"`
	Comment        *string              `json:"comment" validate:"omitempty,max=255"`
}

// CRMCreateInput is an order entered by staff.
type CRMCreateInput struct {
	AddressID         *string              `json:"addressId" validate:"omitempty,min=1"`
	Address           *addresssvc.Input    `json:"address" validate:"omitempty"`
	CustomerID        *string              `json:"customerId" validate:"omitempty,min=1"`
	CustomerName      string               `json:"customerName" validate:"required"`
	CustomerLastname  string               `json:"customerLastname" validate:"required"`
	CustomerPhone     string               `json:"customerPhone" validate:"required,e164"`
	AssignedEmployees []string             `json:"assignedEmployees" validate:"omitempty,min=1"`
	AssignedTools     []string             `json:"assignedTools" validate:"omitempty,min=1"`
	OrderReviews      []string             `json:"orderReviews" validate:"omitempty,min=1"`
	Price             *decimal.Decimal     `json:"price" validate:"-"`
	StartTime         *time.Time           `json:"startTime" validate:"required"`
	EndTime           *time.Time           `json:"endTime"`
	CanceledAt        *time.Time           `json:"canceledAt"`
	PaymentMethod     domain.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH TERMINAL CARD"`
	ServiceType       domain.ServiceType   `json:"serviceType" validate:"required,oneof=REGULAR_CLEANING AFTER_RENOVATION CHEMICAL_CLEANING"`
	ServiceOptions    map[string]bool      `json:"serviceOptions" validate:"required"`
	Occurance         domain.Occurance     `json:"occurance" validate:"required,oneof=ONE_TIME RECURRING"`
	OrderDetails      json.RawMessage      `json:"orderDetails" validate:"required"`
	Comment           *string              `json:"comment" validate:"omitempty,max=255"`
}

// CreateForCustomer places an order for a registered customer (requester
// set) or a guest. Stored addresses may only be referenced by their owner.
// The address and the order are written in one transaction.
func (s *Service) CreateForCustomer(ctx context.Context, requester *domain.Customer, in CustomerCreateInput) (*domain.OrderWithAddress, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	o := domain.CleaningOrder{
		ID:            domain.NewID(domain.OrderIDPrefix),
		OrderStatus:   domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: in.PaymentMethod,
		ServiceType:   in.ServiceType,
		Occurance:     in.Occurance,
		StartTime:     in.StartTime.UTC(),
		Price:         decimal.Zero,
		Comment:       trimmed(in.Comment),
	}
	switch {
	case requester != nil:
		id := requester.ID
		o.CustomerID = &id
		o.CustomerName = requester.Name
		o.CustomerLastname = requester.Lastname
		o.CustomerPhone = requester.Phone
	case in.GuestCustomer != nil:
		o.CustomerName = strings.TrimSpace(in.GuestCustomer.Name)
		o.CustomerLastname = strings.TrimSpace(in.GuestCustomer.Lastname)
		o.CustomerPhone = strings.TrimSpace(in.GuestCustomer.Phone)
	default:
		return nil, domain.Validation("customer identity required: provide a customer token or guestCustomer")
	}

	if err := ValidateServiceOptionKeys(in.ServiceOptions); err != nil {
		return nil, err
	}
	o.ServiceOptions = NormalizeServiceOptions(in.ServiceOptions)
	details, err := parseAndValidateDetails(in.OrderDetails)
	if err != nil {
		return nil, err
	}
	o.OrderDetails = details

	src := addresssvc.Source{AddressID: in.AddressID, Address: in.Address}
	return s.create(ctx, o, src, true)
}

// CreateForCRM places an order on behalf of a customer. The customer
// identity is taken from the body; customerId, when set, must exist and
// owns any inline address. Existing addresses are not checked for ownership.
func (s *Service) CreateForCRM(ctx context.Context, in CRMCreateInput) (*domain.OrderWithAddress, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	start := in.StartTime.UTC()
	if err := checkTimes(start, in.EndTime, in.CanceledAt); err != nil {
		return nil, err
	}
	price := decimal.Zero
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return nil, err
		}
		price = *in.Price
	}
	if err := ValidateServiceOptionKeys(in.ServiceOptions); err != nil {
		return nil, err
	}
	details, err := parseAndValidateDetails(in.OrderDetails)
	if err != nil {
		return nil, err
	}

	o := domain.CleaningOrder{
		ID:                domain.NewID(domain.OrderIDPrefix),
		OrderStatus:       domain.OrderPending,
		PaymentStatus:     domain.PaymentPending,
		PaymentMethod:     in.PaymentMethod,
		ServiceType:       in.ServiceType,
		Occurance:         in.Occurance,
		StartTime:         start,
		EndTime:           utc(in.EndTime),
		CanceledAt:        utc(in.CanceledAt),
		Price:             price,
		ServiceOptions:    NormalizeServiceOptions(in.ServiceOptions),
		OrderDetails:      details,
		CustomerID:        in.CustomerID,
		CustomerName:      strings.TrimSpace(in.CustomerName),
		CustomerLastname:  strings.TrimSpace(in.CustomerLastname),
		CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
		AssignedEmployees: in.AssignedEmployees,
		AssignedTools:     in.AssignedTools,
		OrderReviews:      in.OrderReviews,
		Comment:           trimmed(in.Comment),
	}

	src := addresssvc.Source{AddressID: in.AddressID, Address: in.Address}
	return s.create(ctx, o, src, false)
}

func (s *Service) create(ctx context.Context, o domain.CleaningOrder, src addresssvc.Source, strict bool) (*domain.OrderWithAddress, error) {
	var out *domain.OrderWithAddress
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		if o.CustomerID != nil && !strict {
			if err := s.requireCustomer(ctx, q, *o.CustomerID); err != nil {
				return err
			}
		}
		addr, err := s.store.ResolveOrCreate(ctx, q, src, o.CustomerID, strict)
		if err != nil {
			return err
		}
		o.AddressID = addr.ID
		created, err := s.orders.Create(ctx, q, o)
		if err != nil {
			return err
		}
		out = &domain.OrderWithAddress{Order: *created, Address: *addr}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) requireCustomer(ctx context.Context, q db.Querier, id string) error {
	_, err := s.customers.GetByID(ctx, q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Customer not found")
	}
	return err
}

// maxPrice is the first value the NUMERIC(10,4) price column cannot hold.
var maxPrice = decimal.New(1, 6)

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Validation("price must not be negative")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return domain.Validation("price must be less than 1000000")
	}
	return nil
}

// checkTimes enforces canceledAt < start and endTime > start.
func checkTimes(start time.Time, end, canceled *time.Time) error {
	if canceled != nil && !canceled.Before(start) {
		return domain.Validation("Canceled at date must be before start time")
	}
	if end != nil && !end.After(start) {
		return domain.Validation("End time must be after start time")
	}
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
