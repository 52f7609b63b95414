package middleware

import (
	"net/http"
	"time"

	"employee-reimbursement/backend/internal/telemetry"
)

// Telemetry returns middleware that emits a telemetry event after each
// request. Best-effort and asynchronous: emission never delays or fails the
// request. skipRoutes is the set of "METHOD /path" route keys to not emit
// (e.g. the health check). If emitter is nil the middleware no-ops.
func Telemetry(emitter telemetry.EventEmitter, skipRoutes map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			if emitter == nil || skipRoutes[r.Method+" "+r.URL.Path] {
				return
			}
			employeeID, _ := EmployeeID(r.Context())
			event := &telemetry.Event{
				Name:       "http.request",
				EmployeeID: employeeID,
				Route:      r.Method + " " + r.URL.Path,
				Status:     sw.Status(),
				Duration:   time.Since(start),
				CreatedAt:  time.Now().UTC(),
				Metadata:   map[string]string{"client_ip": ClientIP(r.Context())},
			}
			telemetry.EmitAsync(emitter, r.Context(), event)
		})
	}
}
