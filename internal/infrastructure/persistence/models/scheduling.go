package models

import (
	"time"

	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentModel is the persistence model for the Appointment aggregate root.
type AppointmentModel struct {
	TenantAggregateModel
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProfessionalID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID      uuid.UUID       `gorm:"type:uuid;not null"`
	Status         string          `gorm:"type:varchar(20);not null"`
	StartTime      time.Time       `gorm:"not null"`
	FinalPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CompletedAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts the persistence model to a domain Appointment.
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	a := &scheduling.Appointment{
		CustomerID:     m.CustomerID,
		ProfessionalID: m.ProfessionalID,
		ServiceID:      m.ServiceID,
		Status:         scheduling.AppointmentStatus(m.Status),
		StartTime:      m.StartTime,
		FinalPrice:     m.FinalPrice,
		CompletedAt:    m.CompletedAt,
		CancelReason:   m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Appointment.
func (m *AppointmentModel) FromDomain(a *scheduling.Appointment) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.CustomerID = a.CustomerID
	m.ProfessionalID = a.ProfessionalID
	m.ServiceID = a.ServiceID
	m.Status = string(a.Status)
	m.StartTime = a.StartTime
	m.FinalPrice = a.FinalPrice
	m.CompletedAt = a.CompletedAt
	m.CancelReason = a.CancelReason
}

// AppointmentModelFromDomain creates a new persistence model from a domain Appointment.
func AppointmentModelFromDomain(a *scheduling.Appointment) *AppointmentModel {
	m := &AppointmentModel{}
	m.FromDomain(a)
	return m
}
