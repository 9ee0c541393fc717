package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/myday-api/internal/events"
)

// RecordingEmitter implements events.EventEmitter by keeping every event.
type RecordingEmitter struct {
	// Err is returned from EmitEvent after the event is recorded
	Err error

	events []*events.TaskEvent
	mu     sync.Mutex
}

var _ events.EventEmitter = (*RecordingEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (r *RecordingEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Events returns the recorded events in emission order.
func (r *RecordingEmitter) Events() []*events.TaskEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*events.TaskEvent(nil), r.events...)
}

// Types returns the type of each recorded event.
func (r *RecordingEmitter) Types() []events.TaskEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]events.TaskEventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
