package model

import (
	"time"
)

const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// User carries a single optional role rather than a set; the token issuer and
// login only ever act on one role per account.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	NormalizedEmail string    `json:"-"`
	Name            string    `json:"name"`
	HashedPassword  string    `json:"-"` // Not exposed
	Role            *string   `json:"role,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
