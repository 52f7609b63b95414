// Package handler exposes employee account operations over HTTP: registration
// and the gated profile mutations.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	authservice "employee-reimbursement/backend/internal/auth/service"
	"employee-reimbursement/backend/internal/employee/domain"
	"employee-reimbursement/backend/internal/employee/service"
	"employee-reimbursement/backend/internal/server/middleware"
)

// EmployeeHandler serves the /api/employees endpoints.
type EmployeeHandler struct {
	employees    *service.EmployeeService
	auth         *authservice.AuthService
	cookieTTL    time.Duration
	cookieSecure bool
}

// NewEmployeeHandler returns an EmployeeHandler.
func NewEmployeeHandler(employees *service.EmployeeService, auth *authservice.AuthService, cookieTTL time.Duration, cookieSecure bool) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, auth: auth, cookieTTL: cookieTTL, cookieSecure: cookieSecure}
}

type employeeView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(e *domain.Employee) employeeView {
	return employeeView{ID: e.ID, Email: e.Email, Role: e.Role.String()}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     int    `json:"role"`
}

// Register creates a new employee account. A leftover session cookie from a
// previous account is destroyed server-side and cleared.
func (h *EmployeeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if token, ok := middleware.SessionToken(r.Context()); ok && token != "" {
		if err := h.auth.DestroyToken(r.Context(), token); err != nil {
			log.Printf("employee handler: destroy leftover session: %v", err)
		}
		middleware.ClearSessionCookie(w, h.cookieSecure)
	}
	emp, err := h.employees.Register(r.Context(), req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	middleware.SetEmployeeID(r.Context(), emp.ID)
	writeJSON(w, http.StatusCreated, viewOf(emp))
}

type changePasswordRequest struct {
	EmployeeID  int64  `json:"employee_id"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the caller's password.
func (h *EmployeeHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == 0 {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := h.requireToken(w, r, req.EmployeeID)
	if !ok {
		return
	}
	emp, err := h.employees.ChangePassword(r.Context(), req.EmployeeID, token, req.OldPassword, req.NewPassword)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, req.EmployeeID, token)
	writeJSON(w, http.StatusOK, viewOf(emp))
}

type changeEmailRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Email      string `json:"email"`
}

// ChangeEmail replaces the caller's email address.
func (h *EmployeeHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req changeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == 0 {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := h.requireToken(w, r, req.EmployeeID)
	if !ok {
		return
	}
	emp, err := h.employees.ChangeEmail(r.Context(), req.EmployeeID, token, req.Email)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, req.EmployeeID, token)
	writeJSON(w, http.StatusOK, viewOf(emp))
}

type changeRoleRequest struct {
	ManagerID int64 `json:"manager_id"`
	TargetID  int64 `json:"target_id"`
	Role      int   `json:"role"`
}

// ChangeRole sets another employee's role; the caller must be a manager.
func (h *EmployeeHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ManagerID == 0 {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := h.requireToken(w, r, req.ManagerID)
	if !ok {
		return
	}
	emp, err := h.employees.ChangeRole(r.Context(), req.ManagerID, req.TargetID, token, domain.Role(req.Role))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, req.ManagerID, token)
	writeJSON(w, http.StatusOK, viewOf(emp))
}

// requireToken extracts the session cookie for a protected request. On a
// missing cookie the employee's idle session is reaped and 401 written.
func (h *EmployeeHandler) requireToken(w http.ResponseWriter, r *http.Request, employeeID int64) (string, bool) {
	token, ok := middleware.SessionToken(r.Context())
	if !ok || token == "" {
		if _, err := h.auth.ReapExpired(r.Context(), employeeID); err != nil {
			log.Printf("employee handler: reap on missing cookie: %v", err)
		}
		middleware.ClearSessionCookie(w, h.cookieSecure)
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return "", false
	}
	return token, true
}

// authorized records the acting employee and re-issues the session cookie
// after a successful gated operation.
func (h *EmployeeHandler) authorized(w http.ResponseWriter, r *http.Request, employeeID int64, token string) {
	middleware.SetEmployeeID(r.Context(), employeeID)
	middleware.SetSessionCookie(w, token, h.cookieTTL, h.cookieSecure)
}

func (h *EmployeeHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authservice.ErrUnauthorized), errors.Is(err, authservice.ErrUnauthenticated):
		middleware.ClearSessionCookie(w, h.cookieSecure)
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrRoleChangeNotAllowed),
		errors.Is(err, service.ErrNoSuchEmployee):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("employee handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("employee handler: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
