// Package service implements employee account operations: registration and
// the gated profile mutations (password, email, role).
package service

import (
	"context"
	"errors"

	"employee-reimbursement/backend/internal/employee/domain"
	"employee-reimbursement/backend/internal/employee/repository"
	"employee-reimbursement/backend/internal/platform/authgate"
)

// Sentinel errors for the employee service; handlers map them to HTTP statuses.
var (
	// ErrEmailTaken means registration or an email change hit an existing
	// account with the same address.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWrongPassword means the supplied current password did not match.
	ErrWrongPassword = errors.New("current password does not match")
	// ErrRoleChangeNotAllowed means the actor is not a manager or tried to
	// change their own role.
	ErrRoleChangeNotAllowed = errors.New("role change not allowed")
	// ErrNoSuchEmployee means the target of a mutation does not exist.
	ErrNoSuchEmployee = errors.New("no such employee")
)

// Repo is the employee repository surface the service needs.
type Repo interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) error
	UpdateEmail(ctx context.Context, id int64, email string) (*domain.Employee, error)
	UpdatePassword(ctx context.Context, id int64, password string) (*domain.Employee, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.Employee, error)
}

// EmployeeService performs account mutations once the gate confirms the
// caller's session. Register is the one ungated operation.
type EmployeeService struct {
	employees Repo
	gate      *authgate.Gate
}

// NewEmployeeService returns an EmployeeService with the given dependencies.
func NewEmployeeService(employees Repo, gate *authgate.Gate) *EmployeeService {
	return &EmployeeService{employees: employees, gate: gate}
}

// Register validates and creates a new employee account.
func (s *EmployeeService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.Employee, error) {
	if err := domain.ValidateRegistration(email, password, role); err != nil {
		return nil, err
	}
	e := &domain.Employee{Email: email, Password: password, Role: role}
	if err := s.employees.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return e, nil
}

// ChangePassword replaces the employee's password after re-checking the
// current one.
func (s *EmployeeService) ChangePassword(ctx context.Context, employeeID int64, token, oldPassword, newPassword string) (*domain.Employee, error) {
	done, err := s.gate.Require(ctx, employeeID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := domain.ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	current, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoSuchEmployee
	}
	if current.Password != oldPassword {
		return nil, ErrWrongPassword
	}
	return s.employees.UpdatePassword(ctx, employeeID, newPassword)
}

// ChangeEmail replaces the employee's email address.
func (s *EmployeeService) ChangeEmail(ctx context.Context, employeeID int64, token, email string) (*domain.Employee, error) {
	done, err := s.gate.Require(ctx, employeeID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	updated, err := s.employees.UpdateEmail(ctx, employeeID, email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrNoSuchEmployee
	}
	return updated, nil
}

// ChangeRole sets another employee's role. The actor must be a manager and
// may not change their own role.
func (s *EmployeeService) ChangeRole(ctx context.Context, managerID, targetID int64, token string, role domain.Role) (*domain.Employee, error) {
	done, err := s.gate.Require(ctx, managerID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if managerID == targetID {
		return nil, ErrRoleChangeNotAllowed
	}
	actor, err := s.employees.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.Role != domain.RoleManager {
		return nil, ErrRoleChangeNotAllowed
	}
	updated, err := s.employees.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNoSuchEmployee
	}
	return updated, nil
}
