package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"employee-reimbursement/backend/internal/db"
	"employee-reimbursement/backend/internal/employee/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an employee repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const employeeColumns = "id, email, password, role_id"

// GetByID returns the employee for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employee WHERE id = $1", id)
	return scanEmployee(row)
}

// GetByEmail returns the employee with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employee WHERE email = $1", email)
	return scanEmployee(row)
}

// GetByCredentials returns the employee whose email and password both match, or
// nil when no row matches. Comparison is exact-match against the stored values.
func (r *PostgresRepository) GetByCredentials(ctx context.Context, email, password string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employee WHERE email = $1 AND password = $2",
		email, password)
	return scanEmployee(row)
}

// Create persists the employee and assigns its generated ID.
// Returns ErrDuplicateEmail when the email is already registered.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Employee) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO employee (email, password, role_id) VALUES ($1, $2, $3) RETURNING id",
		e.Email, e.Password, int(e.Role)).Scan(&e.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// UpdateEmail sets the employee's email and returns the updated row, or nil if
// the employee does not exist.
func (r *PostgresRepository) UpdateEmail(ctx context.Context, id int64, email string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE employee SET email = $2 WHERE id = $1 RETURNING "+employeeColumns,
		id, email)
	return scanEmployee(row)
}

// UpdatePassword sets the employee's password and returns the updated row, or
// nil if the employee does not exist.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, password string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE employee SET password = $2 WHERE id = $1 RETURNING "+employeeColumns,
		id, password)
	return scanEmployee(row)
}

// UpdateRole sets the employee's role and returns the updated row, or nil if
// the employee does not exist.
func (r *PostgresRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE employee SET role_id = $2 WHERE id = $1 RETURNING "+employeeColumns,
		id, int(role))
	return scanEmployee(row)
}

func scanEmployee(row *sql.Row) (*domain.Employee, error) {
	var e domain.Employee
	var roleID int
	err := row.Scan(&e.ID, &e.Email, &e.Password, &roleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query employee: %w", err)
	}
	e.Role = domain.Role(roleID)
	return &e, nil
}
