package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"employee-reimbursement/backend/internal/ticket/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a ticket repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const ticketColumns = "ticket_id, reason, amount, description, status_id, request_date, employee_id"

// GetByID returns the ticket for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM ticket WHERE ticket_id = $1", id)
	t, err := scanTicket(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query ticket: %w", err)
	}
	return t, nil
}

// Create persists the ticket. The ticket must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO ticket ("+ticketColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		t.ID, t.Reason, t.Amount, t.Description, int(t.Status), t.RequestDate, t.EmployeeID)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// DecideIfPending sets the final status only where the stored status is still
// Pending. Returns nil when the guard rejected the update.
func (r *PostgresRepository) DecideIfPending(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE ticket SET status_id = $2 WHERE ticket_id = $1 AND status_id = $3 RETURNING "+ticketColumns,
		id, int(status), int(domain.StatusPending))
	t, err := scanTicket(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("decide ticket: %w", err)
	}
	return t, nil
}

// ListByEmployee returns the employee's tickets ordered by request date.
func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM ticket WHERE employee_id = $1 ORDER BY request_date",
		employeeID)
}

// ListByEmployeeAndStatus returns the employee's tickets with the given status,
// ordered by request date.
func (r *PostgresRepository) ListByEmployeeAndStatus(ctx context.Context, employeeID int64, status domain.Status) ([]*domain.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM ticket WHERE employee_id = $1 AND status_id = $2 ORDER BY request_date",
		employeeID, int(status))
}

// ListByStatus returns all tickets with the given status ordered by request
// date; with StatusPending this is the review queue.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM ticket WHERE status_id = $1 ORDER BY request_date",
		int(status))
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var out []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	return out, nil
}

func scanTicket(scan func(...any) error) (*domain.Ticket, error) {
	var t domain.Ticket
	var statusID int
	err := scan(&t.ID, &t.Reason, &t.Amount, &t.Description, &statusID, &t.RequestDate, &t.EmployeeID)
	if err != nil {
		return nil, err
	}
	t.Status = domain.Status(statusID)
	return &t, nil
}
