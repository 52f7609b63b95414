// Package domain holds the employee entity and field validation rules.
package domain

import (
	"errors"
	"regexp"
)

// Role is the employee's permission level.
type Role int

const (
	RoleEmployee Role = 0
	RoleManager  Role = 1
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleManager:
		return "manager"
	default:
		return "unknown"
	}
}

// Employee is the core employee entity.
//
// Password is stored and compared as a plain string, matching the system this
// replaces. This is a known weakness, kept so credential checks stay
// exact-match; see DESIGN.md.
type Employee struct {
	ID       int64
	Email    string
	Password string
	Role     Role
}

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("password must be at least 6 letters or digits")
	ErrInvalidRole     = errors.New("role must be employee (0) or manager (1)")
)

var (
	emailPattern    = regexp.MustCompile(`^([a-zA-Z0-9_\-\.]+)@([a-zA-Z0-9_\-\.]+)\.([a-zA-Z]{2,5})$`)
	passwordPattern = regexp.MustCompile(`^[0-9a-zA-Z]{6,}$`)
)

// ValidateEmail checks the registration email format.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the registration password format: six or more
// alphanumeric characters.
func ValidatePassword(password string) error {
	if !passwordPattern.MatchString(password) {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateRegistration checks every field needed to create an employee.
func ValidateRegistration(email, password string, role Role) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
