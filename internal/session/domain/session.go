// Package domain holds the session entity.
package domain

import "time"

// Session binds one opaque token to one employee's authenticated browsing
// session. At most one session exists per employee; the store's unique
// constraint on EmployeeID enforces this under concurrent logins.
type Session struct {
	Token        string
	EmployeeID   int64
	LastActivity time.Time
}

// IdleSince reports whether the session has been unused longer than ttl as of now.
func (s *Session) IdleSince(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) >= ttl
}
