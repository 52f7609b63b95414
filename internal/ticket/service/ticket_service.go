// Package service implements the ticket business operations behind the
// authorization gate: submission, listing, and the pending → approved/denied
// transition.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	employeedomain "employee-reimbursement/backend/internal/employee/domain"
	"employee-reimbursement/backend/internal/platform/authgate"
	"employee-reimbursement/backend/internal/policy/engine"
	"employee-reimbursement/backend/internal/ticket/domain"
)

// Sentinel errors for the ticket service; handlers map them to HTTP statuses.
var (
	// ErrInvalidTransition means the review was rejected: the actor is not a
	// manager, is the ticket's own submitter, the ticket is not Pending, or it
	// does not exist. No state changes on this error.
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	// ErrNotManager means a manager-only read was attempted by a non-manager.
	ErrNotManager = errors.New("manager role required")
	// ErrInvalidStatus means a status filter value outside the known range.
	ErrInvalidStatus = errors.New("unknown ticket status")
)

// TicketRepo is the minimal ticket repository needed by the service.
type TicketRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, t *domain.Ticket) error
	DecideIfPending(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.Ticket, error)
	ListByEmployeeAndStatus(ctx context.Context, employeeID int64, status domain.Status) ([]*domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Ticket, error)
}

// EmployeeRepo is the minimal employee repository needed by the service.
type EmployeeRepo interface {
	GetByID(ctx context.Context, id int64) (*employeedomain.Employee, error)
}

// TicketService performs ticket CRUD once the gate confirms the caller's session.
type TicketService struct {
	tickets   TicketRepo
	employees EmployeeRepo
	gate      *authgate.Gate
	policy    engine.Evaluator
}

// NewTicketService returns a TicketService with the given dependencies.
func NewTicketService(tickets TicketRepo, employees EmployeeRepo, gate *authgate.Gate, policy engine.Evaluator) *TicketService {
	return &TicketService{tickets: tickets, employees: employees, gate: gate, policy: policy}
}

// Submit validates and stores a new ticket for the employee. The amount keeps
// its submitted value for validation and is rounded to cents for storage; the
// ticket starts Pending.
func (s *TicketService) Submit(ctx context.Context, employeeID int64, token, reason string, amount float64, description string) (*domain.Ticket, error) {
	done, err := s.gate.Require(ctx, employeeID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := domain.ValidateFields(reason, amount, description); err != nil {
		return nil, err
	}
	t := &domain.Ticket{
		ID:          uuid.NewString(),
		Reason:      reason,
		Amount:      domain.RoundAmount(amount),
		Description: description,
		Status:      domain.StatusPending,
		RequestDate: time.Now().UTC(),
		EmployeeID:  employeeID,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Approve moves the ticket Pending → Approved.
func (s *TicketService) Approve(ctx context.Context, managerID int64, token, ticketID string) (*domain.Ticket, error) {
	return s.decide(ctx, managerID, token, ticketID, domain.StatusApproved)
}

// Deny moves the ticket Pending → Denied.
func (s *TicketService) Deny(ctx context.Context, managerID int64, token, ticketID string) (*domain.Ticket, error) {
	return s.decide(ctx, managerID, token, ticketID, domain.StatusDenied)
}

// decide runs the review policy and, if allowed, applies the transition with a
// still-pending guard so no partial or double decision can land.
func (s *TicketService) decide(ctx context.Context, managerID int64, token, ticketID string, status domain.Status) (*domain.Ticket, error) {
	done, err := s.gate.Require(ctx, managerID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	actor, err := s.employees.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if actor == nil || t == nil {
		return nil, ErrInvalidTransition
	}

	allowed, err := s.policy.AllowReview(ctx, actor, t)
	if err != nil {
		return nil, fmt.Errorf("review policy: %w", err)
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	decided, err := s.tickets.DecideIfPending(ctx, ticketID, status)
	if err != nil {
		return nil, err
	}
	if decided == nil {
		// Lost a race: someone else decided the ticket after the policy check.
		return nil, ErrInvalidTransition
	}
	return decided, nil
}

// Pending returns the review queue, oldest first. Manager only.
func (s *TicketService) Pending(ctx context.Context, managerID int64, token string) ([]*domain.Ticket, error) {
	done, err := s.gate.Require(ctx, managerID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	actor, err := s.employees.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.Role != employeedomain.RoleManager {
		return nil, ErrNotManager
	}
	return s.tickets.ListByStatus(ctx, domain.StatusPending)
}

// ListByEmployee returns the employee's own tickets, oldest first.
func (s *TicketService) ListByEmployee(ctx context.Context, employeeID int64, token string) ([]*domain.Ticket, error) {
	done, err := s.gate.Require(ctx, employeeID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	return s.tickets.ListByEmployee(ctx, employeeID)
}

// ListByEmployeeAndStatus returns the employee's own tickets with the given
// status, oldest first.
func (s *TicketService) ListByEmployeeAndStatus(ctx context.Context, employeeID int64, token string, status domain.Status) ([]*domain.Ticket, error) {
	done, err := s.gate.Require(ctx, employeeID, token)
	if err != nil {
		return nil, err
	}
	defer done()

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.tickets.ListByEmployeeAndStatus(ctx, employeeID, status)
}
