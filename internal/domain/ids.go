package domain

import "github.com/google/uuid"

const (
	AddressIDPrefix  = "ADDRESS"
	OrderIDPrefix    = "ORDER"
	CustomerIDPrefix = "CUSTOMER"
	UserIDPrefix     = "USER"
	EmployeeIDPrefix = "EMPLOYEE"
	ScheduleIDPrefix = "SCHEDULE"
)

// NewID returns a fresh identifier of the form PREFIX-<uuid>.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
