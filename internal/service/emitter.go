package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Event names emitted by the services.
const (
	EventEditorChanged = "editor:changed"
	EventPageSaved     = "page:saved"
	EventPagePublished = "page:published"
	EventTemplates     = "templates:reloaded"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from the transport
// ─────────────────────────────────────────────────────────────

// EventEmitter delivers service events to whoever listens. The serve modes
// log them; services depend on this interface so they can be tested with
// MockEmitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes every event to the standard logger.
type LogEmitter struct{}

func (LogEmitter) Emit(_ context.Context, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("event %s: %v", event, err)
		return
	}
	log.Printf("event %s %s", event, payload)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// It is safe for use from the autosave goroutine.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}
