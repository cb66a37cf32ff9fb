package shared

import "github.com/google/uuid"

// TenantAggregateRoot is a tenant-owned aggregate with an optimistic-lock
// version. Events it raises stay pending until the owning unit of work
// pulls them.
type TenantAggregateRoot struct {
	TenantEntity
	Version int
	pending []DomainEvent
}

// NewTenantAggregateRoot starts a new aggregate at version 1
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{TenantEntity: NewTenantEntity(tenantID), Version: 1}
}

// IncrementVersion must be called once per persisted state change; the
// repositories update with "version = Version-1".
func (a *TenantAggregateRoot) IncrementVersion() {
	a.Version++
}

func (a *TenantAggregateRoot) RaiseEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns raised events without clearing them.
func (a *TenantAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// PullEvents returns the raised events and clears them.
func (a *TenantAggregateRoot) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
