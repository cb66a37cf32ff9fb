package commission

import (
	"context"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleRepository defines the interface for commission rule persistence
type RuleRepository interface {
	// FindByID finds a rule within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CommissionRule, error)

	// FindCandidates returns the active rules of the tenant that could apply
	// to the professional and service, in any order
	FindCandidates(ctx context.Context, tenantID, professionalID, serviceID uuid.UUID) ([]CommissionRule, error)

	// FindAll lists the tenant's rules
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CommissionRule, int64, error)

	// Save creates or updates a rule
	Save(ctx context.Context, rule *CommissionRule) error
}

// CommissionRepository defines the interface for commission persistence
type CommissionRepository interface {
	// FindByID finds a commission within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Commission, error)

	// FindBySource finds the commission for an idempotency key
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType SourceType, sourceID, serviceID uuid.UUID) (*Commission, error)

	// CreateIfAbsent inserts the commission unless one already exists for its
	// idempotency key. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, commission *Commission) (bool, error)

	// Save updates a commission's status fields
	Save(ctx context.Context, commission *Commission) error

	// FindByProfessional lists a professional's commissions earned in [from, to)
	FindByProfessional(ctx context.Context, tenantID, professionalID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Commission, int64, error)
}
