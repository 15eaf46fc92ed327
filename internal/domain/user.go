package domain

import "time"

type ContextKey string

const UserContextKey ContextKey = "user"

type User struct {
	ID    string `json:"id"` // UUID
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Address is a saved address as returned by the address list service,
// used to prefill the shipping step.
type Address struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"` // "Home", "Office"
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	AddressLine string    `json:"addressLine"`
	City        string    `json:"city"`
	District    string    `json:"district"`
	PostalCode  string    `json:"postalCode"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
}
