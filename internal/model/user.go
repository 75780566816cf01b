package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a user. Only two levels exist.
type Role string

const (
	// RoleEmployee is the default role assigned at registration.
	RoleEmployee Role = "EMPLOYEE"
	// RoleAdmin grants access to the roster, corrections and exports.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Toggle returns the other role.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleEmployee
	}
	return RoleAdmin
}

// UserStore defines persistence operations for the user roster.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByHandle(ctx context.Context, handle string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
}

// User represents a roster entry. Handle is the login identifier,
// a CPF number in practice, and is unique across the roster.
type User struct {
	ID           uuid.UUID
	Handle       string
	PasswordHash []byte
	DisplayName  string
	Role         Role
	CreatedAt    time.Time
}
