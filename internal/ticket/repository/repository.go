package repository

import (
	"context"

	"employee-reimbursement/backend/internal/ticket/domain"
)

// Repository defines persistence for reimbursement tickets.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, t *domain.Ticket) error
	// DecideIfPending sets the ticket's final status only if its stored status
	// is still Pending, returning the updated ticket or nil when the guard
	// rejected the update (already decided, or no such ticket). The guard runs
	// in the UPDATE itself so two concurrent reviewers cannot both win.
	DecideIfPending(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.Ticket, error)
	ListByEmployeeAndStatus(ctx context.Context, employeeID int64, status domain.Status) ([]*domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Ticket, error)
}
