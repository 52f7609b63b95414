// Package engine evaluates the ticket review policy: who may move a ticket out
// of Pending. The rules live in Rego so deployments can swap in their own.
package engine

import (
	"context"

	employeedomain "employee-reimbursement/backend/internal/employee/domain"
	ticketdomain "employee-reimbursement/backend/internal/ticket/domain"
)

// Evaluator decides whether an actor may approve or deny a ticket.
type Evaluator interface {
	// AllowReview reports whether actor may decide the ticket. It must be
	// false unless the actor is a manager, is not the ticket's submitter, and
	// the ticket is still Pending.
	AllowReview(ctx context.Context, actor *employeedomain.Employee, t *ticketdomain.Ticket) (bool, error)
}
