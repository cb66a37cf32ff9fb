package commission

import (
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleTier ranks how specific a rule is. Lower values win.
type RuleTier int

const (
	TierProfessionalService RuleTier = iota + 1
	TierProfessional
	TierService
	TierTenantDefault
)

// String returns the tier name
func (t RuleTier) String() string {
	switch t {
	case TierProfessionalService:
		return "PROFESSIONAL_SERVICE"
	case TierProfessional:
		return "PROFESSIONAL"
	case TierService:
		return "SERVICE"
	case TierTenantDefault:
		return "TENANT_DEFAULT"
	}
	return "UNKNOWN"
}

// CommissionRule assigns a percentage to work done by a professional.
// ProfessionalID and ServiceID narrow the rule; nil means "any".
// ServiceID may also hold a product id for product sale lines.
type CommissionRule struct {
	shared.TenantAggregateRoot
	ProfessionalID *uuid.UUID
	ServiceID      *uuid.UUID
	Percentage     decimal.Decimal
	Priority       int
	Active         bool
	Description    string
}

// NewCommissionRule creates an active rule
func NewCommissionRule(tenantID uuid.UUID, professionalID, serviceID *uuid.UUID, percentage decimal.Decimal, priority int) (*CommissionRule, error) {
	if !valueobject.IsValidPercentage(percentage) {
		return nil, shared.ErrInvalidInput.WithMessage("Percentage must be between 0 and 100 with at most 2 decimals")
	}
	return &CommissionRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProfessionalID:      nonNil(professionalID),
		ServiceID:           nonNil(serviceID),
		Percentage:          percentage,
		Priority:            priority,
		Active:              true,
	}, nil
}

// Tier returns the specificity tier of the rule
func (r *CommissionRule) Tier() RuleTier {
	switch {
	case r.ProfessionalID != nil && r.ServiceID != nil:
		return TierProfessionalService
	case r.ProfessionalID != nil:
		return TierProfessional
	case r.ServiceID != nil:
		return TierService
	default:
		return TierTenantDefault
	}
}

// Matches reports whether the rule applies to the given professional and service
func (r *CommissionRule) Matches(professionalID, serviceID uuid.UUID) bool {
	if r.ProfessionalID != nil && *r.ProfessionalID != professionalID {
		return false
	}
	if r.ServiceID != nil && *r.ServiceID != serviceID {
		return false
	}
	return true
}

// Update changes the percentage, priority and description
func (r *CommissionRule) Update(percentage decimal.Decimal, priority int, description string) error {
	if !valueobject.IsValidPercentage(percentage) {
		return shared.ErrInvalidInput.WithMessage("Percentage must be between 0 and 100 with at most 2 decimals")
	}
	r.Percentage = percentage
	r.Priority = priority
	r.Description = description
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Deactivate soft-disables the rule
func (r *CommissionRule) Deactivate() error {
	if !r.Active {
		return shared.ErrInvalidState.WithMessage("Commission rule is already inactive")
	}
	r.Active = false
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Activate re-enables the rule
func (r *CommissionRule) Activate() error {
	if r.Active {
		return shared.ErrInvalidState.WithMessage("Commission rule is already active")
	}
	r.Active = true
	r.Touch()
	r.IncrementVersion()
	return nil
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
