// Package telemetry defines the request telemetry event and the emitter
// interface the HTTP middleware reports through.
package telemetry

import (
	"context"
	"time"
)

// Event is one telemetry record: a handled HTTP request or a notable
// application event such as a session replacement.
type Event struct {
	// Name identifies the event, e.g. "http.request" or "session.replaced".
	Name string
	// EmployeeID is the acting employee, 0 when unknown.
	EmployeeID int64
	// Route is "METHOD /path" for request events.
	Route string
	// Status is the HTTP status code for request events.
	Status int
	// Duration is how long handling took.
	Duration time.Duration
	// CreatedAt is when the event happened; zero means now.
	CreatedAt time.Time
	// Metadata carries free-form extra attributes.
	Metadata map[string]string
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort;
// callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
