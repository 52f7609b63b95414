// Package service implements session issuance, authorization, and expiry for
// the reimbursement API. Sessions are opaque tokens persisted one-per-employee;
// the session table's unique constraint on employee_id decides races between
// concurrent logins.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	employeedomain "employee-reimbursement/backend/internal/employee/domain"
	sessiondomain "employee-reimbursement/backend/internal/session/domain"
	sessionrepo "employee-reimbursement/backend/internal/session/repository"
)

// Sentinel errors for the auth service; handlers map them to HTTP statuses.
var (
	// ErrInvalidCredentials means the email/password pair matched no employee,
	// or failed field validation before the lookup.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized means no session row matches the (employee, token) pair,
	// or the matching session sat idle past the threshold.
	ErrUnauthorized = errors.New("no valid session")
	// ErrUnauthenticated means a logout-style operation found no session to end.
	ErrUnauthenticated = errors.New("not authenticated")
)

// EmployeeRepo is the minimal employee repository needed by the auth service
// (the credential verifier).
type EmployeeRepo interface {
	GetByCredentials(ctx context.Context, email, password string) (*employeedomain.Employee, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	DeleteByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (bool, error)
	DeleteByEmployee(ctx context.Context, employeeID int64) (bool, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteIfIdle(ctx context.Context, employeeID int64, cutoff time.Time) (bool, error)
	UpdateLastActivity(ctx context.Context, employeeID int64, at time.Time) error
}

// AuthService issues, authorizes, refreshes, and revokes employee sessions.
type AuthService struct {
	employees EmployeeRepo
	sessions  SessionRepo
	idleTTL   time.Duration
}

// NewAuthService returns an AuthService with the given dependencies. idleTTL is
// the idle window after which an unused session stops authorizing requests.
func NewAuthService(employees EmployeeRepo, sessions SessionRepo, idleTTL time.Duration) *AuthService {
	return &AuthService{employees: employees, sessions: sessions, idleTTL: idleTTL}
}

// Login verifies the credentials and creates the employee's session, returning
// the new opaque token and the employee record.
//
// If the employee already has a session (unique-constraint conflict on insert),
// that session is deleted and the insert retried exactly once: a second login
// for the same account silently invalidates the first token. The conflict is
// surfaced by the store, not pre-checked, so two concurrent logins cannot both
// win the insert.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *employeedomain.Employee, error) {
	if employeedomain.ValidateEmail(email) != nil || employeedomain.ValidatePassword(password) != nil {
		return "", nil, ErrInvalidCredentials
	}

	emp, err := s.employees.GetByCredentials(ctx, email, password)
	if err != nil {
		return "", nil, fmt.Errorf("verify credentials: %w", err)
	}
	if emp == nil {
		return "", nil, ErrInvalidCredentials
	}

	sess := &sessiondomain.Session{
		Token:        uuid.NewString(),
		EmployeeID:   emp.ID,
		LastActivity: time.Now().UTC(),
	}
	err = s.sessions.Create(ctx, sess)
	if errors.Is(err, sessionrepo.ErrDuplicateSession) {
		// Replace the existing session and retry once. Bounded on purpose: a
		// second conflict means another login is racing ours and already owns
		// the row, so this attempt loses.
		if _, delErr := s.sessions.DeleteByEmployee(ctx, emp.ID); delErr != nil {
			return "", nil, fmt.Errorf("replace session: %w", delErr)
		}
		log.Printf("auth: replaced existing session for employee %d", emp.ID)
		err = s.sessions.Create(ctx, sess)
	}
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return sess.Token, emp, nil
}

// Authorize reports whether the exact (employee, token) pair names a live
// session. A matching session that sat idle past the threshold is deleted here
// and reported as ErrUnauthorized, so an expired token can never authorize a
// request regardless of whether reaping got to it first.
func (s *AuthService) Authorize(ctx context.Context, employeeID int64, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	sess, err := s.sessions.GetByEmployeeAndToken(ctx, employeeID, token)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if sess == nil {
		return ErrUnauthorized
	}
	if sess.IdleSince(time.Now().UTC(), s.idleTTL) {
		if _, err := s.sessions.DeleteByEmployeeAndToken(ctx, employeeID, token); err != nil {
			log.Printf("auth: removing idle session for employee %d: %v", employeeID, err)
		}
		return ErrUnauthorized
	}
	return nil
}

// RefreshActivity bumps the session's last-activity timestamp to now. Called
// once after every authorized operation to keep the idle clock accurate.
func (s *AuthService) RefreshActivity(ctx context.Context, employeeID int64) error {
	if err := s.sessions.UpdateLastActivity(ctx, employeeID, time.Now().UTC()); err != nil {
		return fmt.Errorf("refresh activity: %w", err)
	}
	return nil
}

// Logout ends the (employee, token) session. Fails with ErrUnauthenticated when
// the pair does not authorize, matching the authorize-then-delete sequence of
// the stored session lifecycle.
func (s *AuthService) Logout(ctx context.Context, employeeID int64, token string) error {
	if err := s.Authorize(ctx, employeeID, token); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return ErrUnauthenticated
		}
		return err
	}
	deleted, err := s.sessions.DeleteByEmployeeAndToken(ctx, employeeID, token)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if !deleted {
		// A concurrent login replaced the session between authorize and delete.
		return ErrUnauthenticated
	}
	return nil
}

// ReapExpired deletes the employee's session if it has been idle past the
// threshold. The HTTP boundary calls this when a protected request arrives with
// no token at all, cleaning up server-side state the client has already lost.
// Returns whether a session was removed.
func (s *AuthService) ReapExpired(ctx context.Context, employeeID int64) (bool, error) {
	cutoff := time.Now().UTC().Add(-s.idleTTL)
	removed, err := s.sessions.DeleteIfIdle(ctx, employeeID, cutoff)
	if err != nil {
		return false, fmt.Errorf("reap session: %w", err)
	}
	if removed {
		log.Printf("auth: reaped idle session for employee %d", employeeID)
	}
	return removed, nil
}

// DestroyToken removes the session carrying the token regardless of owner.
// Used when registration finds a leftover cookie from a previous account.
func (s *AuthService) DestroyToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
