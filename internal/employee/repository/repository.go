package repository

import (
	"context"
	"errors"

	"employee-reimbursement/backend/internal/employee/domain"
)

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines persistence for employees.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	// GetByCredentials returns the employee whose email and password both match
	// the stored row exactly, or nil when no row matches.
	GetByCredentials(ctx context.Context, email, password string) (*domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) error
	UpdateEmail(ctx context.Context, id int64, email string) (*domain.Employee, error)
	UpdatePassword(ctx context.Context, id int64, password string) (*domain.Employee, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.Employee, error)
}
