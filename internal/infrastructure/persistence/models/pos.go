package models

import (
	"time"

	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	TenantAggregateModel
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName    string          `gorm:"type:varchar(200)"`
	CashRegisterID  *uuid.UUID      `gorm:"type:uuid;index"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAt          *time.Time
	Items           []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale, lines included.
func (m *SaleModel) ToDomain() *pos.Sale {
	s := &pos.Sale{
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		CashRegisterID:  m.CashRegisterID,
		PaymentMethodID: m.PaymentMethodID,
		PaymentStatus:   pos.PaymentStatus(m.PaymentStatus),
		Subtotal:        m.Subtotal,
		Discount:        m.Discount,
		Total:           m.Total,
		PaidAt:          m.PaidAt,
		Items:           make([]pos.SaleItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	for i := range m.Items {
		s.Items[i] = *m.Items[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Sale.
func (m *SaleModel) FromDomain(s *pos.Sale) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.CustomerID = s.CustomerID
	m.CustomerName = s.CustomerName
	m.CashRegisterID = s.CashRegisterID
	m.PaymentMethodID = s.PaymentMethodID
	m.PaymentStatus = string(s.PaymentStatus)
	m.Subtotal = s.Subtotal
	m.Discount = s.Discount
	m.Total = s.Total
	m.PaidAt = s.PaidAt
	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(&s.Items[i])
		m.Items[i].SaleID = s.ID
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *pos.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is the persistence model for a sale line.
type SaleItemModel struct {
	BaseModel
	SaleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      *uuid.UUID      `gorm:"type:uuid"`
	ServiceID      *uuid.UUID      `gorm:"type:uuid"`
	ProfessionalID *uuid.UUID      `gorm:"type:uuid"`
	Description    string          `gorm:"type:varchar(200)"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() *pos.SaleItem {
	return &pos.SaleItem{
		BaseEntity:     m.BaseModel.ToDomain(),
		SaleID:         m.SaleID,
		ProductID:      m.ProductID,
		ServiceID:      m.ServiceID,
		ProfessionalID: m.ProfessionalID,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Total:          m.Total,
	}
}

// FromDomain populates the persistence model from a domain SaleItem.
func (m *SaleItemModel) FromDomain(i *pos.SaleItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.SaleID = i.SaleID
	m.ProductID = i.ProductID
	m.ServiceID = i.ServiceID
	m.ProfessionalID = i.ProfessionalID
	m.Description = i.Description
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.Total = i.Total
}

// CashRegisterModel is the persistence model for the CashRegister aggregate root.
// The partial unique index allows a single OPEN register per operator.
type CashRegisterModel struct {
	AggregateModel
	TenantID        uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_cash_registers_open_operator,priority:1,where:status = 'OPEN'"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid"`
	OperatorID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_cash_registers_open_operator,priority:2,where:status = 'OPEN'"`
	OpenedAt        time.Time  `gorm:"not null"`
	ClosedAt        *time.Time
	OpeningBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ClosingBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpectedBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Difference      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status          string          `gorm:"type:varchar(10);not null"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CashRegisterModel) TableName() string {
	return "cash_registers"
}

// ToDomain converts the persistence model to a domain CashRegister.
func (m *CashRegisterModel) ToDomain() *pos.CashRegister {
	r := &pos.CashRegister{
		OperatorID:      m.OperatorID,
		OpenedAt:        m.OpenedAt,
		ClosedAt:        m.ClosedAt,
		OpeningBalance:  m.OpeningBalance,
		ClosingBalance:  m.ClosingBalance,
		ExpectedBalance: m.ExpectedBalance,
		Difference:      m.Difference,
		Status:          pos.RegisterStatus(m.Status),
		Notes:           m.Notes,
	}
	r.ID = m.ID
	r.CreatedAt = m.CreatedAt
	r.UpdatedAt = m.UpdatedAt
	r.Version = m.Version
	r.TenantID = m.TenantID
	r.CreatedBy = m.CreatedBy
	return r
}

// FromDomain populates the persistence model from a domain CashRegister.
func (m *CashRegisterModel) FromDomain(r *pos.CashRegister) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Version = r.Version
	m.TenantID = r.TenantID
	m.CreatedBy = r.CreatedBy
	m.OperatorID = r.OperatorID
	m.OpenedAt = r.OpenedAt
	m.ClosedAt = r.ClosedAt
	m.OpeningBalance = r.OpeningBalance
	m.ClosingBalance = r.ClosingBalance
	m.ExpectedBalance = r.ExpectedBalance
	m.Difference = r.Difference
	m.Status = string(r.Status)
	m.Notes = r.Notes
}

// CashRegisterModelFromDomain creates a new persistence model from a domain CashRegister.
func CashRegisterModelFromDomain(r *pos.CashRegister) *CashRegisterModel {
	m := &CashRegisterModel{}
	m.FromDomain(r)
	return m
}
