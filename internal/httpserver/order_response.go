package httpserver

import (
	"encoding/json"
	"time"

	"cleaning-crm/internal/domain"
)

// customerOrder is the customer-facing view of an order. Internal planning
// fields are left out.
type customerOrder struct {
	ID               string                `json:"id"`
	OrderStatus      domain.OrderStatus    `json:"orderStatus"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	CustomerName     string                `json:"customerName"`
	CustomerLastname string                `json:"customerLastname"`
	CustomerPhone    string                `json:"customerPhone"`
	StartTime        time.Time             `json:"startTime"`
	EndTime          *time.Time            `json:"endTime,omitempty"`
	CanceledAt       *time.Time            `json:"canceledAt,omitempty"`
	PaymentMethod    domain.PaymentMethod  `json:"paymentMethod"`
	PaymentStatus    domain.PaymentStatus  `json:"paymentStatus"`
	Price            json.Number           `json:"price"`
	ServiceType      domain.ServiceType    `json:"serviceType"`
	ServiceOptions   domain.ServiceOptions `json:"serviceOptions"`
	Occurance        domain.Occurance      `json:"occurance"`
	Comment          *string               `json:"comment,omitempty"`
	Address          domain.Address        `json:"address"`
}

// crmOrder is the full staff view of an order.
type crmOrder struct {
	ID                string                `json:"id"`
	OrderStatus       domain.OrderStatus    `json:"orderStatus"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	CustomerID        *string               `json:"customerId"`
	CustomerName      string                `json:"customerName"`
	CustomerLastname  string                `json:"customerLastname"`
	CustomerPhone     string                `json:"customerPhone"`
	StartTime         time.Time             `json:"startTime"`
	EndTime           *time.Time            `json:"endTime,omitempty"`
	CanceledAt        *time.Time            `json:"canceledAt,omitempty"`
	PaymentMethod     domain.PaymentMethod  `json:"paymentMethod"`
	PaymentStatus     domain.PaymentStatus  `json:"paymentStatus"`
	Price             json.Number           `json:"price"`
	ServiceType       domain.ServiceType    `json:"serviceType"`
	ServiceOptions    domain.ServiceOptions `json:"serviceOptions"`
	OrderDetails      domain.OrderDetails   `json:"orderDetails"`
	Occurance         domain.Occurance      `json:"occurance"`
	AddressID         string                `json:"addressId"`
	AssignedEmployees []string              `json:"assignedEmployees"`
	AssignedTools     []string              `json:"assignedTools"`
	OrderReviews      []string              `json:"orderReviews"`
	Comment           *string               `json:"comment,omitempty"`
	Address           domain.Address        `json:"address"`
}

func toCustomerOrder(v domain.OrderWithAddress) customerOrder {
	o := v.Order
	return customerOrder{
		ID:               o.ID,
		OrderStatus:      o.OrderStatus,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		CustomerName:     o.CustomerName,
		CustomerLastname: o.CustomerLastname,
		CustomerPhone:    o.CustomerPhone,
		StartTime:        o.StartTime,
		EndTime:          o.EndTime,
		CanceledAt:       o.CanceledAt,
		PaymentMethod:    o.PaymentMethod,
		PaymentStatus:    o.PaymentStatus,
		Price:            json.Number(o.Price.String()),
		ServiceType:      o.ServiceType,
		ServiceOptions:   o.ServiceOptions,
		Occurance:        o.Occurance,
		Comment:          o.Comment,
		Address:          v.Address,
	}
}

func toCRMOrder(v domain.OrderWithAddress) crmOrder {
	o := v.Order
	return crmOrder{
		ID:                o.ID,
		OrderStatus:       o.OrderStatus,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		CustomerID:        o.CustomerID,
		CustomerName:      o.CustomerName,
		CustomerLastname:  o.CustomerLastname,
		CustomerPhone:     o.CustomerPhone,
		StartTime:         o.StartTime,
		EndTime:           o.EndTime,
		CanceledAt:        o.CanceledAt,
		PaymentMethod:     o.PaymentMethod,
		PaymentStatus:     o.PaymentStatus,
		Price:             json.Number(o.Price.String()),
		ServiceType:       o.ServiceType,
		ServiceOptions:    o.ServiceOptions,
		OrderDetails:      o.OrderDetails,
		Occurance:         o.Occurance,
		AddressID:         o.AddressID,
		AssignedEmployees: nonNil(o.AssignedEmployees),
		AssignedTools:     nonNil(o.AssignedTools),
		OrderReviews:      nonNil(o.OrderReviews),
		Comment:           o.Comment,
		Address:           v.Address,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// mapPage projects every row of p with fn.
func mapPage[T, U any](p *domain.Page[T], fn func(T) U) domain.Page[U] {
	data := make([]U, 0, len(p.Data))
	for _, v := range p.Data {
		data = append(data, fn(v))
	}
	return domain.Page[U]{Page: p.Page, Limit: p.Limit, Total: p.Total, Data: data}
}
