package commission

import (
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceType identifies what kind of work earned a commission
type SourceType string

const (
	SourceAppointment SourceType = "APPOINTMENT"
	SourceSaleItem    SourceType = "SALE_ITEM"
)

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	return s == SourceAppointment || s == SourceSaleItem
}

// Status represents a commission's payout status
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// Commission is the amount a professional earned for one piece of work.
// At most one exists per (tenant, source type, source id, service); its
// amounts never change after creation, only its status does.
type Commission struct {
	shared.TenantEntity
	ProfessionalID uuid.UUID
	SourceType     SourceType
	SourceID       uuid.UUID
	AppointmentID  *uuid.UUID
	SaleID         *uuid.UUID
	ServiceID      uuid.UUID
	RuleID         *uuid.UUID
	BaseAmount     decimal.Decimal
	Percentage     decimal.Decimal
	Amount         decimal.Decimal
	Status         Status
	EarnedDate     time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
}

// NewCommission computes a pending commission from a resolved rule
func NewCommission(work WorkCompleted, rule *CommissionRule) (*Commission, error) {
	if !work.BaseAmount.IsPositive() {
		return nil, shared.ErrInvalidAmount.WithMessage("Commission base amount must be positive")
	}
	if rule == nil {
		return nil, shared.ErrInvalidInput.WithMessage("Commission rule is required")
	}
	if rule.TenantID != work.TenantID {
		return nil, shared.ErrInvariantViolation.WithMessage(
			"Commission rule %s belongs to tenant %s, work belongs to tenant %s",
			rule.ID, rule.TenantID, work.TenantID)
	}

	ruleID := rule.ID
	c := &Commission{
		TenantEntity:   shared.NewTenantEntity(work.TenantID),
		ProfessionalID: work.ProfessionalID,
		SourceType:     work.SourceType,
		SourceID:       work.SourceID,
		AppointmentID:  work.AppointmentID,
		SaleID:         work.SaleID,
		ServiceID:      work.ServiceID,
		RuleID:         &ruleID,
		BaseAmount:     work.BaseAmount,
		Percentage:     rule.Percentage,
		Amount:         valueobject.PercentOf(work.BaseAmount, rule.Percentage),
		Status:         StatusPending,
		EarnedDate:     work.EarnedDate,
	}
	if c.EarnedDate.IsZero() {
		c.EarnedDate = c.CreatedAt
	}
	return c, nil
}

// MarkPaid settles a pending commission
func (c *Commission) MarkPaid(at time.Time) error {
	if c.Status != StatusPending {
		return shared.ErrInvalidState.WithMessage("Only pending commissions can be paid, current status is %s", c.Status)
	}
	c.Status = StatusPaid
	c.PaidAt = &at
	c.Touch()
	return nil
}

// Cancel voids a pending commission
func (c *Commission) Cancel(at time.Time) error {
	if c.Status != StatusPending {
		return shared.ErrInvalidState.WithMessage("Only pending commissions can be cancelled, current status is %s", c.Status)
	}
	c.Status = StatusCancelled
	c.CancelledAt = &at
	c.Touch()
	return nil
}

// WorkCompleted describes a unit of work that may earn a commission
type WorkCompleted struct {
	TenantID       uuid.UUID
	ProfessionalID uuid.UUID
	SourceType     SourceType
	SourceID       uuid.UUID
	AppointmentID  *uuid.UUID
	SaleID         *uuid.UUID
	ServiceID      uuid.UUID
	BaseAmount     decimal.Decimal
	EarnedDate     time.Time
}

// Validate checks the identifiers of the work
func (w WorkCompleted) Validate() error {
	if w.TenantID == uuid.Nil || w.ProfessionalID == uuid.Nil || w.ServiceID == uuid.Nil || w.SourceID == uuid.Nil {
		return shared.ErrInvalidInput.WithMessage("Tenant, professional, service and source are required")
	}
	if !w.SourceType.IsValid() {
		return shared.ErrInvalidInput.WithMessage("Invalid commission source type %q", w.SourceType)
	}
	return nil
}
