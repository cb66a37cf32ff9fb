package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate. Events are handed to an
// EventPublisher only after the unit of work that raised them has committed.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// EventHeader implements DomainEvent. Concrete events embed it and add
// their payload fields.
type EventHeader struct {
	ID            uuid.UUID `json:"event_id"`
	Type          string    `json:"event_type"`
	At            time.Time `json:"occurred_at"`
	SourceID      uuid.UUID `json:"aggregate_id"`
	SourceType    string    `json:"aggregate_type"`
	OwnerTenantID uuid.UUID `json:"tenant_id"`
}

// NewEventHeader stamps a fresh event id and the current UTC time.
func NewEventHeader(eventType, aggregateType string, aggregateID, tenantID uuid.UUID) EventHeader {
	return EventHeader{
		ID:            uuid.New(),
		Type:          eventType,
		At:            time.Now().UTC(),
		SourceID:      aggregateID,
		SourceType:    aggregateType,
		OwnerTenantID: tenantID,
	}
}

func (h EventHeader) EventID() uuid.UUID     { return h.ID }
func (h EventHeader) EventType() string      { return h.Type }
func (h EventHeader) OccurredAt() time.Time  { return h.At }
func (h EventHeader) AggregateID() uuid.UUID { return h.SourceID }
func (h EventHeader) AggregateType() string  { return h.SourceType }
func (h EventHeader) TenantID() uuid.UUID    { return h.OwnerTenantID }

// EventHandler reacts to published events. An empty EventTypes subscribes
// the handler to every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher delivers committed events to their handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers. Subscribe with
// no explicit types falls back to the handler's EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}
