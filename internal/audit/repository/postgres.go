package repository

import (
	"context"
	"database/sql"
	"errors"

	"employee-reimbursement/backend/internal/audit/domain"
)

const auditColumns = "id, employee_id, action, resource, ip, metadata, created_at"

// PostgresRepository implements Repository on a Postgres database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+auditColumns+" FROM audit_log WHERE id = $1", id)
	return scanAuditLog(row.Scan)
}

// ListByEmployee returns the employee's audit logs newest first, paginated by
// limit and offset.
func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+auditColumns+" FROM audit_log WHERE employee_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create persists the audit log. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	eid := sql.NullInt64{Int64: a.EmployeeID, Valid: a.EmployeeID != 0}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_log (id, employee_id, action, resource, ip, metadata, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		a.ID, eid, a.Action, a.Resource, a.IP, a.Metadata, a.CreatedAt)
	return err
}

func scanAuditLog(scan func(dest ...any) error) (*domain.AuditLog, error) {
	var a domain.AuditLog
	var eid sql.NullInt64
	err := scan(&a.ID, &eid, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.EmployeeID = eid.Int64
	return &a, nil
}
