package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []*Event
}

func (r *recordingEmitter) Emit(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestEmitAsync_DeliversEvent(t *testing.T) {
	emitter := &recordingEmitter{}
	EmitAsync(emitter, context.Background(), &Event{Name: "http.request", Route: "GET /healthz", Status: 200})

	deadline := time.Now().Add(2 * time.Second)
	for emitter.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event was not emitted")
		}
		time.Sleep(5 * time.Millisecond)
	}
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if emitter.events[0].Name != "http.request" {
		t.Fatalf("name = %q", emitter.events[0].Name)
	}
}

func TestEmitAsync_NilArgsAreNoops(t *testing.T) {
	// Must not panic.
	EmitAsync(nil, context.Background(), &Event{Name: "x"})
	EmitAsync(&recordingEmitter{}, context.Background(), nil)
}
