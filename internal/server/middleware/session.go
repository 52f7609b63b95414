// Package middleware holds the HTTP middleware chain: session cookie
// extraction, per-request audit, and request telemetry.
package middleware

import (
	"net"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session"

// Session extracts the session cookie and client IP into the request context
// and installs the identity holder handlers fill in. It never rejects a
// request; whether a missing token is fatal is the handler's call.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIdentityHolder(r.Context())
		if c, err := r.Cookie(SessionCookieName); err == nil {
			ctx = WithSessionToken(ctx, c.Value)
		}
		ctx = WithClientIP(ctx, clientIPFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIPFromRequest returns the client IP from x-forwarded-for, x-real-ip,
// or the connection's remote address.
func clientIPFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); v != "" {
		if i := strings.Index(v, ","); i > 0 {
			v = strings.TrimSpace(v[:i])
		}
		if v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(r.Header.Get("X-Real-Ip")); v != "" {
		return v
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
