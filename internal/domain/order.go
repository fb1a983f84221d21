package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks the lifecycle of a cleaning order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further work happens on an order in this status.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTerminal PaymentMethod = "TERMINAL"
	PaymentCard     PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTerminal || m == PaymentCard
}

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentCancelled
}

// ServiceType is the kind of cleaning requested.
type ServiceType string

const (
	ServiceRegular          ServiceType = "REGULAR_CLEANING"
	ServiceAfterRenovation  ServiceType = "AFTER_RENOVATION"
	ServiceChemicalCleaning ServiceType = "CHEMICAL_CLEANING"
)

func (t ServiceType) Valid() bool {
	return t == ServiceRegular || t == ServiceAfterRenovation || t == ServiceChemicalCleaning
}

// Occurance tells whether an order repeats.
type Occurance string

const (
	OccuranceOneTime   Occurance = "ONE_TIME"
	OccuranceRecurring Occurance = "RECURRING"
)

func (o Occurance) Valid() bool {
	return o == OccuranceOneTime || o == OccuranceRecurring
}

// ServiceOptions is the fixed set of cleaning add-ons.
type ServiceOptions struct {
	InsideOven        bool `json:"insideOven"`
	Walls             bool `json:"walls"`
	InsideWindow      bool `json:"insideWindow"`
	InsideFridge      bool `json:"insideFridge"`
	InsideCabinets    bool `json:"insideCabinets"`
	InsideDishwasher  bool `json:"insideDishwasher"`
	InsideGarage      bool `json:"insideGarage"`
	Microwave         bool `json:"microwave"`
	WashLaundry       bool `json:"washLaundry"`
	InsideWasherDryer bool `json:"insideWasherDryer"`
	SwimmingPool      bool `json:"swimmingPool"`
}

// Rooms holds room counts and the living space area.
type Rooms struct {
	LivingRoom   int     `json:"livingRoom"`
	Kitchen      int     `json:"kitchen"`
	Bathroom     int     `json:"bathroom"`
	Bedroom      int     `json:"bedroom"`
	SquareMeters float64 `json:"squareMeters"`
}

// Balcony holds the balcony area.
type Balcony struct {
	SquareMeters float64 `json:"squareMeters"`
}

// OrderDetails describes the premises to be cleaned.
type OrderDetails struct {
	Rooms   Rooms   `json:"rooms"`
	Balcony Balcony `json:"balcony"`
}

// CleaningOrder is a booked cleaning job.
type CleaningOrder struct {
	ID                string
	OrderStatus       OrderStatus
	StartTime         time.Time
	EndTime           *time.Time
	CanceledAt        *time.Time
	PaymentMethod     PaymentMethod
	PaymentStatus     PaymentStatus
	ServiceType       ServiceType
	ServiceOptions    ServiceOptions
	OrderDetails      OrderDetails
	Occurance         Occurance
	Price             decimal.Decimal
	AddressID         string
	CustomerID        *string
	CustomerName      string
	CustomerLastname  string
	CustomerPhone     string
	AssignedEmployees []string
	AssignedTools     []string
	OrderReviews      []string
	Comment           *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderWithAddress is an order joined with the address it references.
type OrderWithAddress struct {
	Order   CleaningOrder
	Address Address
}
