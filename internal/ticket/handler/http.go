// Package handler exposes ticket submission, listing, and review over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	authservice "employee-reimbursement/backend/internal/auth/service"
	"employee-reimbursement/backend/internal/server/middleware"
	"employee-reimbursement/backend/internal/ticket/domain"
	"employee-reimbursement/backend/internal/ticket/service"
)

// TicketHandler serves the /api/tickets endpoints and the employee's own
// ticket listing.
type TicketHandler struct {
	tickets      *service.TicketService
	auth         *authservice.AuthService
	cookieTTL    time.Duration
	cookieSecure bool
}

// NewTicketHandler returns a TicketHandler.
func NewTicketHandler(tickets *service.TicketService, auth *authservice.AuthService, cookieTTL time.Duration, cookieSecure bool) *TicketHandler {
	return &TicketHandler{tickets: tickets, auth: auth, cookieTTL: cookieTTL, cookieSecure: cookieSecure}
}

type ticketView struct {
	ID          string    `json:"id"`
	Reason      string    `json:"reason"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	RequestDate time.Time `json:"request_date"`
	EmployeeID  int64     `json:"employee_id"`
}

func viewOf(t *domain.Ticket) ticketView {
	return ticketView{
		ID:          t.ID,
		Reason:      t.Reason,
		Amount:      t.Amount,
		Description: t.Description,
		Status:      t.Status.String(),
		RequestDate: t.RequestDate,
		EmployeeID:  t.EmployeeID,
	}
}

func viewsOf(ts []*domain.Ticket) []ticketView {
	out := make([]ticketView, len(ts))
	for i, t := range ts {
		out[i] = viewOf(t)
	}
	return out
}

type submitRequest struct {
	EmployeeID  int64   `json:"employee_id"`
	Reason      string  `json:"reason"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Submit files a new reimbursement ticket for the caller.
func (h *TicketHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == 0 {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := h.requireToken(w, r, req.EmployeeID)
	if !ok {
		return
	}
	t, err := h.tickets.Submit(r.Context(), req.EmployeeID, token, req.Reason, req.Amount, req.Description)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, req.EmployeeID, token)
	writeJSON(w, http.StatusCreated, viewOf(t))
}

type reviewRequest struct {
	ManagerID int64  `json:"manager_id"`
	TicketID  string `json:"ticket_id"`
}

// Approve moves a pending ticket to approved.
func (h *TicketHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.tickets.Approve)
}

// Deny moves a pending ticket to denied.
func (h *TicketHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.tickets.Deny)
}

func (h *TicketHandler) review(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, managerID int64, token, ticketID string) (*domain.Ticket, error)) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ManagerID == 0 || req.TicketID == "" {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := h.requireToken(w, r, req.ManagerID)
	if !ok {
		return
	}
	t, err := decide(r.Context(), req.ManagerID, token, req.TicketID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, req.ManagerID, token)
	writeJSON(w, http.StatusOK, viewOf(t))
}

// Pending returns the manager's review queue, oldest first.
func (h *TicketHandler) Pending(w http.ResponseWriter, r *http.Request) {
	managerID, ok := queryID(w, r, "manager_id")
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r, managerID)
	if !ok {
		return
	}
	ts, err := h.tickets.Pending(r.Context(), managerID, token)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, managerID, token)
	writeJSON(w, http.StatusOK, viewsOf(ts))
}

// ListOwn returns the caller's tickets, optionally filtered with ?status=.
func (h *TicketHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := queryID(w, r, "employee_id")
	if !ok {
		return
	}
	token, ok := h.requireToken(w, r, employeeID)
	if !ok {
		return
	}
	var ts []*domain.Ticket
	var err error
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, parseErr := parseStatus(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		ts, err = h.tickets.ListByEmployeeAndStatus(r.Context(), employeeID, token, status)
	} else {
		ts, err = h.tickets.ListByEmployee(r.Context(), employeeID, token)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.authorized(w, r, employeeID, token)
	writeJSON(w, http.StatusOK, viewsOf(ts))
}

// parseStatus accepts a status name or its numeric id.
func parseStatus(raw string) (domain.Status, error) {
	switch raw {
	case "pending":
		return domain.StatusPending, nil
	case "approved":
		return domain.StatusApproved, nil
	case "denied":
		return domain.StatusDenied, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !domain.Status(n).Valid() {
		return 0, service.ErrInvalidStatus
	}
	return domain.Status(n), nil
}

func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *TicketHandler) requireToken(w http.ResponseWriter, r *http.Request, employeeID int64) (string, bool) {
	token, ok := middleware.SessionToken(r.Context())
	if !ok || token == "" {
		if _, err := h.auth.ReapExpired(r.Context(), employeeID); err != nil {
			log.Printf("ticket handler: reap on missing cookie: %v", err)
		}
		middleware.ClearSessionCookie(w, h.cookieSecure)
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return "", false
	}
	return token, true
}

func (h *TicketHandler) authorized(w http.ResponseWriter, r *http.Request, employeeID int64, token string) {
	middleware.SetEmployeeID(r.Context(), employeeID)
	middleware.SetSessionCookie(w, token, h.cookieTTL, h.cookieSecure)
}

func (h *TicketHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authservice.ErrUnauthorized), errors.Is(err, authservice.ErrUnauthenticated):
		middleware.ClearSessionCookie(w, h.cookieSecure)
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, domain.ErrInvalidReason),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotManager),
		errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ticket handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ticket handler: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
