package domain

import "time"

// Customer represents a registered customer account.
type Customer struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Email        *string   `json:"email,omitempty"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
