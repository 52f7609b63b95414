// Package domain holds the reimbursement ticket entity and its field rules.
package domain

import (
	"errors"
	"math"
	"time"
)

// Status is a ticket's review state. Tickets start Pending and move exactly
// once, to Approved or Denied.
type Status int

const (
	StatusPending  Status = 0
	StatusApproved Status = 1
	StatusDenied   Status = 2
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusDenied
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Ticket is one reimbursement request.
type Ticket struct {
	ID          string
	Reason      string
	Amount      float64
	Description string
	Status      Status
	RequestDate time.Time
	EmployeeID  int64
}

var (
	ErrInvalidReason      = errors.New("reason must be at least 2 characters")
	ErrInvalidDescription = errors.New("description must be at least 2 characters")
	ErrInvalidAmount      = errors.New("amount must be greater than 0 and less than 10000")
)

// ValidateFields checks the submitted reason, amount, and description. The
// amount bound is strict on both ends and applies to the raw value, before
// rounding.
func ValidateFields(reason string, amount float64, description string) error {
	if len(reason) <= 1 {
		return ErrInvalidReason
	}
	if amount <= 0 || amount >= 10000 {
		return ErrInvalidAmount
	}
	if len(description) <= 1 {
		return ErrInvalidDescription
	}
	return nil
}

// RoundAmount rounds a monetary amount to two decimal places, half away from
// zero (150.005 stores as 150.01).
func RoundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}
