package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	employeedomain "employee-reimbursement/backend/internal/employee/domain"
	sessiondomain "employee-reimbursement/backend/internal/session/domain"
	sessionrepo "employee-reimbursement/backend/internal/session/repository"
)

type memEmployees struct {
	mu   sync.Mutex
	rows map[int64]*employeedomain.Employee
}

func (r *memEmployees) GetByCredentials(ctx context.Context, email, password string) (*employeedomain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.Email == email && e.Password == password {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// memSessions mimics the session table, including the unique constraint on
// employee id that Create depends on.
type memSessions struct {
	mu   sync.Mutex
	rows map[string]*sessiondomain.Session // keyed by token
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[string]*sessiondomain.Session{}}
}

func (r *memSessions) GetByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[token]
	if !ok || s.EmployeeID != employeeID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessions) Create(ctx context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.EmployeeID == s.EmployeeID {
			return sessionrepo.ErrDuplicateSession
		}
	}
	cp := *s
	r.rows[s.Token] = &cp
	return nil
}

func (r *memSessions) DeleteByEmployeeAndToken(ctx context.Context, employeeID int64, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[token]; ok && s.EmployeeID == employeeID {
		delete(r.rows, token)
		return true, nil
	}
	return false, nil
}

func (r *memSessions) DeleteByEmployee(ctx context.Context, employeeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, s := range r.rows {
		if s.EmployeeID == employeeID {
			delete(r.rows, tok)
			return true, nil
		}
	}
	return false, nil
}

func (r *memSessions) DeleteByToken(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[token]; ok {
		delete(r.rows, token)
		return true, nil
	}
	return false, nil
}

func (r *memSessions) DeleteIfIdle(ctx context.Context, employeeID int64, cutoff time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, s := range r.rows {
		if s.EmployeeID == employeeID && !s.LastActivity.After(cutoff) {
			delete(r.rows, tok)
			return true, nil
		}
	}
	return false, nil
}

func (r *memSessions) UpdateLastActivity(ctx context.Context, employeeID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.EmployeeID == employeeID {
			s.LastActivity = at
		}
	}
	return nil
}

func (r *memSessions) countFor(employeeID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.rows {
		if s.EmployeeID == employeeID {
			n++
		}
	}
	return n
}

func (r *memSessions) backdate(token string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[token]; ok {
		s.LastActivity = s.LastActivity.Add(-d)
	}
}

func newTestService() (*AuthService, *memSessions) {
	employees := &memEmployees{rows: map[int64]*employeedomain.Employee{
		1: {ID: 1, Email: "ann@example.com", Password: "secret1", Role: employeedomain.RoleEmployee},
		2: {ID: 2, Email: "boss@example.com", Password: "secret2", Role: employeedomain.RoleManager},
	}}
	sessions := newMemSessions()
	return NewAuthService(employees, sessions, 15*time.Minute), sessions
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	token, emp, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("Login returned empty token")
	}
	if emp == nil || emp.ID != 1 {
		t.Fatalf("Login employee = %+v, want id 1", emp)
	}
	if err := svc.Authorize(ctx, 1, token); err != nil {
		t.Errorf("Authorize after Login = %v, want nil", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct{ email, password string }{
		{"ann@example.com", "wrongpw"},
		{"nobody@example.com", "secret1"},
		{"not-an-email", "secret1"},
		{"ann@example.com", "tiny"},
	}
	for _, c := range cases {
		if _, _, err := svc.Login(ctx, c.email, c.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) = %v, want ErrInvalidCredentials", c.email, c.password, err)
		}
	}
}

func TestLogin_SecondLoginReplacesFirstSession(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	t1, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	t2, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if t1 == t2 {
		t.Fatal("second login returned the same token")
	}
	if n := sessions.countFor(1); n != 1 {
		t.Fatalf("session rows for employee 1 = %d, want 1", n)
	}
	if err := svc.Authorize(ctx, 1, t1); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authorize with first token = %v, want ErrUnauthorized", err)
	}
	if err := svc.Authorize(ctx, 1, t2); err != nil {
		t.Errorf("Authorize with second token = %v, want nil", err)
	}
}

func TestAuthorize_RequiresExactPair(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Authorize(ctx, 2, token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authorize with wrong employee id = %v, want ErrUnauthorized", err)
	}
	if err := svc.Authorize(ctx, 1, "bogus"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authorize with wrong token = %v, want ErrUnauthorized", err)
	}
	if err := svc.Authorize(ctx, 1, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authorize with empty token = %v, want ErrUnauthorized", err)
	}
}

func TestAuthorize_IdleSessionRejectedAndRemoved(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	sessions.backdate(token, 16*time.Minute)

	if err := svc.Authorize(ctx, 1, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Authorize on idle session = %v, want ErrUnauthorized", err)
	}
	if n := sessions.countFor(1); n != 0 {
		t.Errorf("idle session rows remaining = %d, want 0", n)
	}
}

func TestRefreshActivity_KeepsSessionLive(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	sessions.backdate(token, 14*time.Minute)
	if err := svc.RefreshActivity(ctx, 1); err != nil {
		t.Fatalf("RefreshActivity: %v", err)
	}
	sessions.backdate(token, 14*time.Minute)

	// 28 idle minutes total, but refreshed in between, so still authorized.
	if err := svc.Authorize(ctx, 1, token); err != nil {
		t.Errorf("Authorize after refresh = %v, want nil", err)
	}
}

func TestLogout(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, 1, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if n := sessions.countFor(1); n != 0 {
		t.Errorf("session rows after logout = %d, want 0", n)
	}
	if err := svc.Logout(ctx, 1, token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("second Logout = %v, want ErrUnauthenticated", err)
	}
	if err := svc.Logout(ctx, 1, "bogus"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Logout with bad token = %v, want ErrUnauthenticated", err)
	}
}

func TestReapExpired(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	removed, err := svc.ReapExpired(ctx, 1)
	if err != nil {
		t.Fatalf("ReapExpired: %v", err)
	}
	if removed {
		t.Error("ReapExpired removed a fresh session")
	}

	sessions.backdate(token, 15*time.Minute)
	removed, err = svc.ReapExpired(ctx, 1)
	if err != nil {
		t.Fatalf("ReapExpired: %v", err)
	}
	if !removed {
		t.Error("ReapExpired should remove a session idle for the full threshold")
	}
	if n := sessions.countFor(1); n != 0 {
		t.Errorf("session rows after reap = %d, want 0", n)
	}
}

func TestDestroyToken(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.DestroyToken(ctx, token); err != nil {
		t.Fatalf("DestroyToken: %v", err)
	}
	if n := sessions.countFor(1); n != 0 {
		t.Errorf("session rows after destroy = %d, want 0", n)
	}
	if err := svc.DestroyToken(ctx, ""); err != nil {
		t.Errorf("DestroyToken with empty token = %v, want nil", err)
	}
}

func TestConcurrentLogins_SingleSessionSettles(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Either outcome is legal for each racer; the invariant is on the
			// settled state below.
			_, _, _ = svc.Login(ctx, "ann@example.com", "secret1")
		}()
	}
	wg.Wait()

	if n := sessions.countFor(1); n > 1 {
		t.Fatalf("session rows for employee 1 after concurrent logins = %d, want at most 1", n)
	}
}
