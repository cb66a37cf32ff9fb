package models

import (
	"time"

	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for derived income and expense rows.
// Each source event yields at most one row per tenant.
type TransactionModel struct {
	BaseModel
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_source,priority:1;index:idx_transactions_date,priority:1"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
	Type            string          `gorm:"type:varchar(10);not null"`
	Category        string          `gorm:"type:varchar(30);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Date            time.Time       `gorm:"not null;index:idx_transactions_date,priority:2"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid"`
	Description     string          `gorm:"type:varchar(500)"`
	SourceType      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_transactions_source,priority:2"`
	SourceID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_source,priority:3"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *TransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		TenantEntity: shared.TenantEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			TenantID:   m.TenantID,
			CreatedBy:  m.CreatedBy,
		},
		Type:            finance.TransactionType(m.Type),
		Category:        finance.Category(m.Category),
		Amount:          m.Amount,
		Date:            m.Date,
		PaymentMethodID: m.PaymentMethodID,
		Description:     m.Description,
		SourceType:      finance.SourceType(m.SourceType),
		SourceID:        m.SourceID,
	}
}

// FromDomain populates the persistence model from a domain Transaction.
func (m *TransactionModel) FromDomain(t *finance.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
	m.Type = string(t.Type)
	m.Category = string(t.Category)
	m.Amount = t.Amount
	m.Date = t.Date
	m.PaymentMethodID = t.PaymentMethodID
	m.Description = t.Description
	m.SourceType = string(t.SourceType)
	m.SourceID = t.SourceID
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction.
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// PaymentMethodModel is the persistence model for the PaymentMethod aggregate root.
type PaymentMethodModel struct {
	TenantAggregateModel
	Name      string `gorm:"type:varchar(100);not null"`
	Kind      string `gorm:"type:varchar(20);not null"`
	IsDefault bool   `gorm:"not null"`
	Active    bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod.
func (m *PaymentMethodModel) ToDomain() *finance.PaymentMethod {
	pm := &finance.PaymentMethod{
		Name:      m.Name,
		Kind:      finance.PaymentKind(m.Kind),
		IsDefault: m.IsDefault,
		Active:    m.Active,
	}
	m.PopulateTenantAggregateRoot(&pm.TenantAggregateRoot)
	return pm
}

// FromDomain populates the persistence model from a domain PaymentMethod.
func (m *PaymentMethodModel) FromDomain(pm *finance.PaymentMethod) {
	m.FromDomainTenantAggregateRoot(pm.TenantAggregateRoot)
	m.Name = pm.Name
	m.Kind = string(pm.Kind)
	m.IsDefault = pm.IsDefault
	m.Active = pm.Active
}

// PaymentMethodModelFromDomain creates a new persistence model from a domain PaymentMethod.
func PaymentMethodModelFromDomain(pm *finance.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{}
	m.FromDomain(pm)
	return m
}
