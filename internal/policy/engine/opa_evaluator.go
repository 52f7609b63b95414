package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	employeedomain "employee-reimbursement/backend/internal/employee/domain"
	ticketdomain "employee-reimbursement/backend/internal/ticket/domain"
)

const reviewQuery = "data.reimburse.ticket_review.allow"

// Default Rego policy: managers decide pending tickets submitted by someone else.
const defaultRegoPolicy = `package reimburse.ticket_review

default allow = false

allow if {
	input.actor.role == "manager"
	input.actor.id != input.ticket.employee_id
	input.ticket.status == "pending"
}
`

// OPAEvaluator evaluates the ticket review policy using OPA Rego.
type OPAEvaluator struct {
	compiler *ast.Compiler
}

// NewOPAEvaluator returns an OPA-based review evaluator. policy overrides the
// default Rego module when non-empty; it must define
// reimburse.ticket_review.allow. Returns an error if the policy does not compile.
func NewOPAEvaluator(policy string) (*OPAEvaluator, error) {
	if policy == "" {
		policy = defaultRegoPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"ticket_review.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile review policy: %w", err)
	}
	return &OPAEvaluator{compiler: compiler}, nil
}

// AllowReview evaluates the policy for one actor/ticket pair. Fails closed: any
// evaluation problem is an error, never an allow.
func (e *OPAEvaluator) AllowReview(ctx context.Context, actor *employeedomain.Employee, t *ticketdomain.Ticket) (bool, error) {
	if actor == nil || t == nil {
		return false, nil
	}
	input := map[string]interface{}{
		"actor": map[string]interface{}{
			"id":   actor.ID,
			"role": actor.Role.String(),
		},
		"ticket": map[string]interface{}{
			"id":          t.ID,
			"employee_id": t.EmployeeID,
			"status":      t.Status.String(),
		},
	}
	q := rego.New(
		rego.Query(reviewQuery),
		rego.Compiler(e.compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval review policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("review policy query returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("review policy returned non-boolean %T", rs[0].Expressions[0].Value)
	}
	return allowed, nil
}
