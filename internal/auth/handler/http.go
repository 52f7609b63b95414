// Package handler exposes the session lifecycle over HTTP: login and logout.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"employee-reimbursement/backend/internal/audit"
	"employee-reimbursement/backend/internal/auth/service"
	"employee-reimbursement/backend/internal/employee/domain"
	"employee-reimbursement/backend/internal/server/middleware"
)

// AuthHandler serves the login and logout endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	auditLogger  audit.AuditLogger
	cookieTTL    time.Duration
	cookieSecure bool
}

// NewAuthHandler returns an AuthHandler. auditLogger may be nil.
func NewAuthHandler(auth *service.AuthService, auditLogger audit.AuditLogger, cookieTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, auditLogger: auditLogger, cookieTTL: cookieTTL, cookieSecure: cookieSecure}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string       `json:"token"`
	Employee employeeView `json:"employee"`
}

type logoutRequest struct {
	EmployeeID int64 `json:"employee_id"`
}

type employeeView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(e *domain.Employee) employeeView {
	return employeeView{ID: e.ID, Email: e.Email, Role: e.Role.String()}
}

// Login verifies credentials, issues the session, and sets the cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, emp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.auditLogger != nil {
				h.auditLogger.LogEvent(r.Context(), 0, "login_failure", "session", "email="+req.Email)
			}
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("auth handler: login: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	middleware.SetEmployeeID(r.Context(), emp.ID)
	middleware.SetSessionCookie(w, token, h.cookieTTL, h.cookieSecure)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Employee: viewOf(emp)})
}

// Logout ends the caller's session and clears the cookie. A request with no
// cookie still reaps the employee's idle session server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == 0 {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := middleware.SessionToken(r.Context())
	if !ok || token == "" {
		if _, err := h.auth.ReapExpired(r.Context(), req.EmployeeID); err != nil {
			log.Printf("auth handler: reap on missing cookie: %v", err)
		}
		middleware.ClearSessionCookie(w, h.cookieSecure)
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.auth.Logout(r.Context(), req.EmployeeID, token); err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			middleware.ClearSessionCookie(w, h.cookieSecure)
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		log.Printf("auth handler: logout: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	middleware.SetEmployeeID(r.Context(), req.EmployeeID)
	middleware.ClearSessionCookie(w, h.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("auth handler: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
