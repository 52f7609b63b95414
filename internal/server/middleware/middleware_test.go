package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"employee-reimbursement/backend/internal/audit/domain"
	"employee-reimbursement/backend/internal/telemetry"
)

func TestSession_ExtractsCookieAndIP(t *testing.T) {
	var gotToken string
	var gotOK bool
	var gotIP string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken, gotOK = SessionToken(r.Context())
		gotIP = ClientIP(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/pending", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	Session(inner).ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK || gotToken != "tok-1" {
		t.Fatalf("token = %q ok=%v, want tok-1", gotToken, gotOK)
	}
	if gotIP != "203.0.113.9" {
		t.Fatalf("ip = %q, want 203.0.113.9", gotIP)
	}
}

func TestSession_NoCookie(t *testing.T) {
	var gotOK bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotOK = SessionToken(r.Context())
	})
	Session(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if gotOK {
		t.Fatal("token should be absent")
	}
}

func TestIdentityHolder_RoundTrip(t *testing.T) {
	ctx := WithIdentityHolder(context.Background())
	if _, ok := EmployeeID(ctx); ok {
		t.Fatal("unset holder should report false")
	}
	SetEmployeeID(ctx, 42)
	id, ok := EmployeeID(ctx)
	if !ok || id != 42 {
		t.Fatalf("id = %d ok=%v, want 42", id, ok)
	}

	// Without a holder both operations are no-ops.
	SetEmployeeID(context.Background(), 1)
	if _, ok := EmployeeID(context.Background()); ok {
		t.Fatal("bare context should report false")
	}
}

type memAuditRepo struct {
	entries []*domain.AuditLog
}

func (m *memAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (m *memAuditRepo) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func (m *memAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	m.entries = append(m.entries, a)
	return nil
}

func TestAudit_RecordsMutatingAuthorizedRequests(t *testing.T) {
	repo := &memAuditRepo{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetEmployeeID(r.Context(), 7)
		w.WriteHeader(http.StatusOK)
	})
	h := Session(Audit(repo, nil)(inner))

	req := httptest.NewRequest(http.MethodPut, "/api/tickets/approve", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.EmployeeID != 7 || e.Action != "ticket_approved" || e.Resource != "ticket" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Metadata != "status=200" {
		t.Fatalf("metadata = %q", e.Metadata)
	}
}

func TestAudit_SkipsGETAndAnonymous(t *testing.T) {
	repo := &memAuditRepo{}
	identified := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetEmployeeID(r.Context(), 7)
	})
	anonymous := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Session(Audit(repo, nil)(identified)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tickets/pending", nil))
	Session(Audit(repo, nil)(anonymous)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tickets", nil))

	if len(repo.entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(repo.entries))
	}
}

type captureEmitter struct {
	ch chan *telemetry.Event
}

func (c *captureEmitter) Emit(_ context.Context, event *telemetry.Event) error {
	c.ch <- event
	return nil
}

func TestTelemetry_EmitsRequestEvent(t *testing.T) {
	emitter := &captureEmitter{ch: make(chan *telemetry.Event, 1)}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetEmployeeID(r.Context(), 3)
		w.WriteHeader(http.StatusCreated)
	})
	h := Session(Telemetry(emitter, map[string]bool{"GET /healthz": true})(inner))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tickets", nil))

	event := <-emitter.ch
	if event.Name != "http.request" || event.Route != "POST /api/tickets" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Status != http.StatusCreated || event.EmployeeID != 3 {
		t.Fatalf("status/employee = %d/%d", event.Status, event.EmployeeID)
	}
}

func TestTelemetry_SkipsConfiguredRoutes(t *testing.T) {
	emitter := &captureEmitter{ch: make(chan *telemetry.Event, 1)}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Telemetry(emitter, map[string]bool{"GET /healthz": true})(inner)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	select {
	case e := <-emitter.ch:
		t.Fatalf("unexpected event %+v", e)
	default:
	}
}
