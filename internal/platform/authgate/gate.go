// Package authgate is the chokepoint every mutating employee/ticket operation
// passes through to confirm the caller holds a live session. It confirms
// session validity only; role checks belong to the calling business operation.
package authgate

import (
	"context"
	"log"
	"sync"
)

// Authorizer is the slice of the auth service the gate needs.
type Authorizer interface {
	Authorize(ctx context.Context, employeeID int64, token string) error
	RefreshActivity(ctx context.Context, employeeID int64) error
}

// Gate wraps the auth service for per-request session checks.
type Gate struct {
	auth Authorizer
}

// New returns a Gate backed by the given authorizer.
func New(auth Authorizer) *Gate {
	return &Gate{auth: auth}
}

// Require confirms the (employee, token) session is valid. On success it
// returns a completion func that refreshes the session's activity timestamp;
// callers defer it so the idle clock advances exactly once per operation,
// whether the guarded mutation succeeds or fails. On failure the operation
// must abort and surface the authorization error.
func (g *Gate) Require(ctx context.Context, employeeID int64, token string) (func(), error) {
	if err := g.auth.Authorize(ctx, employeeID, token); err != nil {
		return nil, err
	}
	var once sync.Once
	done := func() {
		once.Do(func() {
			if err := g.auth.RefreshActivity(ctx, employeeID); err != nil {
				log.Printf("authgate: refresh activity for employee %d: %v", employeeID, err)
			}
		})
	}
	return done, nil
}
