package repository

import (
	"context"
	"errors"
	"time"

	"employee-reimbursement/backend/internal/session/domain"
)

// ErrDuplicateSession is returned by Create when a session row already exists
// for the employee. Login reacts by deleting the existing session and retrying
// once (session replacement).
var ErrDuplicateSession = errors.New("employee already has an active session")

// Repository defines persistence for sessions. Only the auth service writes
// through it; nothing else touches the session table.
type Repository interface {
	// GetByEmployeeAndToken returns the session matching both the employee id
	// and the token, or nil if no such row exists.
	GetByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// DeleteByEmployeeAndToken removes the exact (employee, token) row.
	// Returns (false, nil) when no row matched.
	DeleteByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (bool, error)
	// DeleteByEmployee removes the employee's session regardless of token.
	DeleteByEmployee(ctx context.Context, employeeID int64) (bool, error)
	// DeleteByToken removes the session carrying the token, whoever owns it.
	DeleteByToken(ctx context.Context, token string) (bool, error)
	// DeleteIfIdle removes the employee's session only when its last activity
	// is at or before cutoff. Returns whether a row was removed.
	DeleteIfIdle(ctx context.Context, employeeID int64, cutoff time.Time) (bool, error)
	UpdateLastActivity(ctx context.Context, employeeID int64, at time.Time) error
}
