package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain model for one account.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose password hash in JSON
	IsBlocked    bool       `json:"is_blocked"`
	LastLogin    *time.Time `json:"last_login"` // nil until first successful login
	CreatedAt    time.Time  `json:"created_at"`
}

// Projection is the admin-table view of a user. It carries the blocked
// flag and timestamps but never the password hash.
type Projection struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	IsBlocked bool       `json:"is_blocked"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// Project returns the admin-table projection of u.
func (u *User) Project() Projection {
	return Projection{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsBlocked: u.IsBlocked,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
