package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the API.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account stored in the users table.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Timezone     string    `json:"timezone"`
	Phone        *string   `json:"phone,omitempty"`
	Avatar       *string   `json:"avatar"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
