package domain

import (
	"errors"
	"time"
)

// Role is the closed set of roles a user can hold. Values outside the set are
// rejected at the type boundary via ParseRole rather than by ad-hoc string
// checks downstream.
type Role string

const (
	RoleCEO           Role = "ceo"
	RoleSupplier      Role = "supplier"
	RoleAdministrator Role = "administrator"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the
// closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCEO, RoleSupplier, RoleAdministrator:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrForbidden          = errors.New("access forbidden")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCorruptRecord      = errors.New("corrupt user record")
)

// User models an authenticated actor in the system. PasswordHash is excluded
// from every JSON rendering; responses only ever carry the public fields.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
