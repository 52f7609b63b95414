package middleware

import (
	"context"
	"sync"
)

type contextKey struct{ name string }

var (
	sessionTokenKey = contextKey{"session_token"}
	clientIPKey     = contextKey{"client_ip"}
	identityKey     = contextKey{"identity"}
)

// identity is a request-scoped holder the handler fills in once it has parsed
// the acting employee from the request. Middleware installs it before the
// handler runs and reads it afterwards.
type identity struct {
	mu         sync.Mutex
	employeeID int64
}

// WithSessionToken returns a context carrying the session cookie value.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey, token)
}

// SessionToken returns the session token from context and true if set;
// otherwise "", false.
func SessionToken(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionTokenKey).(string)
	return v, ok
}

// WithClientIP returns a context carrying the client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from context, or "unknown".
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithIdentityHolder returns a context with an empty identity holder installed.
func WithIdentityHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, identityKey, &identity{})
}

// SetEmployeeID records the acting employee on the request's identity holder.
// No-op when the holder is absent.
func SetEmployeeID(ctx context.Context, employeeID int64) {
	id, ok := ctx.Value(identityKey).(*identity)
	if !ok {
		return
	}
	id.mu.Lock()
	id.employeeID = employeeID
	id.mu.Unlock()
}

// EmployeeID returns the employee recorded by the handler and true if set.
func EmployeeID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(identityKey).(*identity)
	if !ok {
		return 0, false
	}
	id.mu.Lock()
	defer id.mu.Unlock()
	if id.employeeID == 0 {
		return 0, false
	}
	return id.employeeID, true
}
