// Package server assembles the HTTP API: routes, middleware chain, and the
// health endpoint.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	authhandler "employee-reimbursement/backend/internal/auth/handler"
	employeehandler "employee-reimbursement/backend/internal/employee/handler"
	"employee-reimbursement/backend/internal/server/middleware"
	"employee-reimbursement/backend/internal/telemetry"
	tickethandler "employee-reimbursement/backend/internal/ticket/handler"

	auditrepo "employee-reimbursement/backend/internal/audit/repository"
)

// Deps are the handlers and cross-cutting dependencies the router wires
// together.
type Deps struct {
	Auth      *authhandler.AuthHandler
	Employees *employeehandler.EmployeeHandler
	Tickets   *tickethandler.TicketHandler

	// AuditRepo backs the per-request audit middleware; nil disables it.
	AuditRepo auditrepo.Repository
	// Emitter backs the request telemetry middleware; nil disables it.
	Emitter telemetry.EventEmitter
	// DB is pinged by the health endpoint; nil skips the ping.
	DB *sql.DB
}

// NewHandler builds the full middleware-wrapped HTTP handler.
func NewHandler(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/employees/register", d.Employees.Register)
	mux.HandleFunc("POST /api/employees/login", d.Auth.Login)
	mux.HandleFunc("DELETE /api/employees/logout", d.Auth.Logout)
	mux.HandleFunc("PUT /api/employees/password", d.Employees.ChangePassword)
	mux.HandleFunc("PUT /api/employees/email", d.Employees.ChangeEmail)
	mux.HandleFunc("PUT /api/employees/role", d.Employees.ChangeRole)
	mux.HandleFunc("GET /api/employees/tickets", d.Tickets.ListOwn)

	mux.HandleFunc("POST /api/tickets", d.Tickets.Submit)
	mux.HandleFunc("GET /api/tickets/pending", d.Tickets.Pending)
	mux.HandleFunc("PUT /api/tickets/approve", d.Tickets.Approve)
	mux.HandleFunc("PUT /api/tickets/deny", d.Tickets.Deny)

	mux.HandleFunc("GET /healthz", healthz(d.DB))

	skip := map[string]bool{"GET /healthz": true}
	var h http.Handler = mux
	h = middleware.Audit(d.AuditRepo, skip)(h)
	h = middleware.Telemetry(d.Emitter, skip)(h)
	h = middleware.Session(h)
	return h
}

// healthz reports liveness; with a db it also confirms the connection.
func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
