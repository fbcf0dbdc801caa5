package model

import "time"

// User roles accepted by the role middleware.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User is an account that owns tickets and table bookings.  PasswordHash
// holds a bcrypt digest and is never serialized in responses.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
