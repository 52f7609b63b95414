package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"employee-reimbursement/backend/internal/db"
	"employee-reimbursement/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// GetByEmployeeAndToken returns the session for the exact (employee, token)
// pair, or nil if not found. It returns an error only for database failures.
func (r *PostgresRepository) GetByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx,
		"SELECT token, employee_id, last_activity FROM session WHERE employee_id = $1 AND token = $2",
		employeeID, token).Scan(&s.Token, &s.EmployeeID, &s.LastActivity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	return &s, nil
}

// Create persists the session. Returns ErrDuplicateSession when the employee
// already has a session row: the unique constraint on employee_id rejects the
// insert, which is the sole mechanism keeping concurrent logins to one winner.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO session (token, employee_id, last_activity) VALUES ($1, $2, $3)",
		s.Token, s.EmployeeID, s.LastActivity)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateSession
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// DeleteByEmployeeAndToken removes the exact (employee, token) row.
func (r *PostgresRepository) DeleteByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM session WHERE employee_id = $1 AND token = $2", employeeID, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return oneRowAffected(res), nil
}

// DeleteByEmployee removes the employee's session regardless of token.
func (r *PostgresRepository) DeleteByEmployee(ctx context.Context, employeeID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM session WHERE employee_id = $1", employeeID)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return oneRowAffected(res), nil
}

// DeleteByToken removes the session carrying the token, whoever owns it.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM session WHERE token = $1", token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return oneRowAffected(res), nil
}

// DeleteIfIdle removes the employee's session only when last_activity is at or
// before cutoff, so a still-active session survives opportunistic reaping.
func (r *PostgresRepository) DeleteIfIdle(ctx context.Context, employeeID int64, cutoff time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM session WHERE employee_id = $1 AND last_activity <= $2",
		employeeID, cutoff)
	if err != nil {
		return false, fmt.Errorf("delete idle session: %w", err)
	}
	return oneRowAffected(res), nil
}

// UpdateLastActivity sets the session's last-activity timestamp for the employee.
func (r *PostgresRepository) UpdateLastActivity(ctx context.Context, employeeID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE session SET last_activity = $2 WHERE employee_id = $1", employeeID, at)
	if err != nil {
		return fmt.Errorf("update session activity: %w", err)
	}
	return nil
}

func oneRowAffected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
