package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh id; both timestamps start at now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// TenantEntity is a record owned by one tenant. Ledger rows (movements,
// commissions, transactions) embed it directly since they are written once
// and never versioned; aggregates get it through TenantAggregateRoot.
type TenantEntity struct {
	BaseEntity
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

func NewTenantEntity(tenantID uuid.UUID) TenantEntity {
	return TenantEntity{BaseEntity: NewBaseEntity(), TenantID: tenantID}
}

// BelongsTo reports whether tenantID owns the record
func (e *TenantEntity) BelongsTo(tenantID uuid.UUID) bool {
	return e.TenantID == tenantID
}

// SetCreatedBy records the acting user. uuid.Nil is ignored.
func (e *TenantEntity) SetCreatedBy(userID uuid.UUID) {
	if userID != uuid.Nil {
		e.CreatedBy = &userID
	}
}
