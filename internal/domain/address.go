package domain

import "time"

// Address is a service location, optionally owned by a customer.
type Address struct {
	ID         string    `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postalCode"`
	Latitude   *string   `json:"latitude,omitempty"`
	Longitude  *string   `json:"longitude,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	CustomerID *string   `json:"customerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the address belongs to the given customer.
// A nil customer never owns anything.
func (a Address) OwnedBy(customerID *string) bool {
	if customerID == nil || a.CustomerID == nil {
		return false
	}
	return *a.CustomerID == *customerID
}
