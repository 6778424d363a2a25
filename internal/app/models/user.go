package models

import (
	"time"
)

// User is an account that can author posts, donate and claim food.
type User struct {
	ID        string    `json:"id" db:"id" example:"665f1c2e9b1d4a0012ab34cd"`
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Email     string    `json:"email" db:"email" example:"jane@example.com"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role      RoleType  `json:"role" db:"role" example:"user"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Sanitized returns a copy without secret fields.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	return &cp
}
