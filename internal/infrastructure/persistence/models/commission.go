package models

import (
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionRuleModel is the persistence model for the CommissionRule aggregate root.
type CommissionRuleModel struct {
	TenantAggregateModel
	ProfessionalID *uuid.UUID      `gorm:"type:uuid;index"`
	ServiceID      *uuid.UUID      `gorm:"type:uuid;index"`
	Percentage     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Priority       int             `gorm:"not null"`
	Active         bool            `gorm:"not null;index"`
	Description    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

// ToDomain converts the persistence model to a domain CommissionRule.
func (m *CommissionRuleModel) ToDomain() *commission.CommissionRule {
	r := &commission.CommissionRule{
		ProfessionalID: m.ProfessionalID,
		ServiceID:      m.ServiceID,
		Percentage:     m.Percentage,
		Priority:       m.Priority,
		Active:         m.Active,
		Description:    m.Description,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain CommissionRule.
func (m *CommissionRuleModel) FromDomain(r *commission.CommissionRule) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.ProfessionalID = r.ProfessionalID
	m.ServiceID = r.ServiceID
	m.Percentage = r.Percentage
	m.Priority = r.Priority
	m.Active = r.Active
	m.Description = r.Description
}

// CommissionRuleModelFromDomain creates a new persistence model from a domain CommissionRule.
func CommissionRuleModelFromDomain(r *commission.CommissionRule) *CommissionRuleModel {
	m := &CommissionRuleModel{}
	m.FromDomain(r)
	return m
}

// CommissionModel is the persistence model for earned commissions.
// At most one row exists per (tenant, source type, source id, service).
type CommissionModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_commissions_source,priority:1;index:idx_commissions_professional,priority:1"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	ProfessionalID uuid.UUID       `gorm:"type:uuid;not null;index:idx_commissions_professional,priority:2"`
	SourceType     string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_commissions_source,priority:2"`
	SourceID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_commissions_source,priority:3"`
	ServiceID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_commissions_source,priority:4"`
	AppointmentID  *uuid.UUID      `gorm:"type:uuid"`
	SaleID         *uuid.UUID      `gorm:"type:uuid"`
	RuleID         *uuid.UUID      `gorm:"type:uuid"`
	BaseAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Percentage     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status         string          `gorm:"type:varchar(20);not null"`
	EarnedDate     time.Time       `gorm:"not null;index:idx_commissions_professional,priority:3"`
	PaidAt         *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Commission.
func (m *CommissionModel) ToDomain() *commission.Commission {
	return &commission.Commission{
		TenantEntity: shared.TenantEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			TenantID:   m.TenantID,
			CreatedBy:  m.CreatedBy,
		},
		ProfessionalID: m.ProfessionalID,
		SourceType:     commission.SourceType(m.SourceType),
		SourceID:       m.SourceID,
		AppointmentID:  m.AppointmentID,
		SaleID:         m.SaleID,
		ServiceID:      m.ServiceID,
		RuleID:         m.RuleID,
		BaseAmount:     m.BaseAmount,
		Percentage:     m.Percentage,
		Amount:         m.Amount,
		Status:         commission.Status(m.Status),
		EarnedDate:     m.EarnedDate,
		PaidAt:         m.PaidAt,
		CancelledAt:    m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Commission.
func (m *CommissionModel) FromDomain(c *commission.Commission) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.TenantID = c.TenantID
	m.CreatedBy = c.CreatedBy
	m.ProfessionalID = c.ProfessionalID
	m.SourceType = string(c.SourceType)
	m.SourceID = c.SourceID
	m.AppointmentID = c.AppointmentID
	m.SaleID = c.SaleID
	m.ServiceID = c.ServiceID
	m.RuleID = c.RuleID
	m.BaseAmount = c.BaseAmount
	m.Percentage = c.Percentage
	m.Amount = c.Amount
	m.Status = string(c.Status)
	m.EarnedDate = c.EarnedDate
	m.PaidAt = c.PaidAt
	m.CancelledAt = c.CancelledAt
}

// CommissionModelFromDomain creates a new persistence model from a domain Commission.
func CommissionModelFromDomain(c *commission.Commission) *CommissionModel {
	m := &CommissionModel{}
	m.FromDomain(c)
	return m
}
