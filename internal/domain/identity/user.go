package identity

import (
	"strings"

	"github.com/residency/backend/internal/domain/shared"
)

// Role represents a user's role within the residency
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleResident Role = "RESIDENT"
	RoleGuest    Role = "GUEST"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleResident, RoleGuest:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role string case-insensitively. Unknown values
// are rejected with a validation error before any query runs on them.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", shared.NewDomainError("VALIDATION_ERROR", "Unknown role: "+s)
	}
	return role, nil
}

// User represents a registered member of the residency
type User struct {
	shared.BaseAggregateRoot
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
}

// NewUser creates a new user with the given profile and role
func NewUser(firstName, lastName, email, passwordHash string, role Role) (*User, error) {
	if firstName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "First name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Email cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown role: "+role.String())
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             strings.ToLower(email),
		PasswordHash:      passwordHash,
		Role:              role,
	}, nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsGuest returns true for guest accounts, which may read role-scoped
// views but never record payments.
func (u *User) IsGuest() bool {
	return u.Role == RoleGuest
}
