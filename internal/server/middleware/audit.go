package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"employee-reimbursement/backend/internal/audit"
	"employee-reimbursement/backend/internal/audit/domain"
	auditrepo "employee-reimbursement/backend/internal/audit/repository"
)

// Audit returns middleware that records an audit log entry after each
// mutating request. skipRoutes is the set of "METHOD /path" route keys to not
// audit. Create is best-effort: failures are logged and do not fail the
// request. Only writes when the handler recorded an acting employee.
func Audit(repo auditrepo.Repository, skipRoutes map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			if repo == nil || r.Method == http.MethodGet || skipRoutes[r.Method+" "+r.URL.Path] {
				return
			}
			employeeID, ok := EmployeeID(r.Context())
			if !ok {
				return
			}
			ar := audit.ParseRoute(r.Method, r.URL.Path)
			entry := &domain.AuditLog{
				ID:         uuid.New().String(),
				EmployeeID: employeeID,
				Action:     ar.Action,
				Resource:   ar.Resource,
				IP:         ClientIP(r.Context()),
				Metadata:   "status=" + strconv.Itoa(sw.Status()),
				CreatedAt:  time.Now().UTC(),
			}
			if err := repo.Create(r.Context(), entry); err != nil {
				log.Printf("audit: failed to create audit log: %v", err)
			}
		})
	}
}

// statusWriter captures the response status code for middleware that runs
// after the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

// Status returns the written status code, defaulting to 200.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
