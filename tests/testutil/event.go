package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/bizcore/backend/internal/domain/shared"
)

// EventRecorder is an event handler that keeps every event it receives.
// Handle fails with Err when it is set.
type EventRecorder struct {
	types []string

	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

func (r *EventRecorder) EventTypes() []string { return r.types }

func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Events returns a snapshot in delivery order.
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Types lists the type of each recorded event in delivery order.
func (r *EventRecorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

var _ shared.EventHandler = (*EventRecorder)(nil)
