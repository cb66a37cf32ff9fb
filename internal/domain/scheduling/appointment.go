package scheduling

import (
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// IsTerminal returns true for states an appointment never leaves
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo reports whether moving to target is allowed
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case StatusScheduled:
		return target == StatusConfirmed || target == StatusInProgress || target == StatusCompleted ||
			target == StatusCancelled || target == StatusNoShow
	case StatusConfirmed:
		return target == StatusInProgress || target == StatusCompleted ||
			target == StatusCancelled || target == StatusNoShow
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	}
	return false
}

// Appointment is a booked service for a customer with a professional
type Appointment struct {
	shared.TenantAggregateRoot
	CustomerID     uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	Status         AppointmentStatus
	StartTime      time.Time
	FinalPrice     decimal.Decimal
	CompletedAt    *time.Time
	CancelReason   string
}

// NewAppointment books a scheduled appointment
func NewAppointment(tenantID, customerID, professionalID, serviceID uuid.UUID, start time.Time, price decimal.Decimal) (*Appointment, error) {
	if customerID == uuid.Nil || professionalID == uuid.Nil || serviceID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Customer, professional and service are required")
	}
	if price.IsNegative() {
		return nil, shared.ErrInvalidAmount.WithMessage("Appointment price cannot be negative")
	}
	return &Appointment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		ProfessionalID:      professionalID,
		ServiceID:           serviceID,
		Status:              StatusScheduled,
		StartTime:           start,
		FinalPrice:          price,
	}, nil
}

func (a *Appointment) transition(target AppointmentStatus) error {
	if !a.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState.WithMessage("Cannot move appointment from %s to %s", a.Status, target)
	}
	a.Status = target
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Confirm confirms a scheduled appointment
func (a *Appointment) Confirm() error {
	return a.transition(StatusConfirmed)
}

// Start marks the appointment as in progress
func (a *Appointment) Start() error {
	return a.transition(StatusInProgress)
}

// Complete finishes the appointment. A nil finalPrice keeps the booked price.
// Completing an already completed appointment is a no-op that reports false,
// so callers can re-run idempotent derivations safely.
func (a *Appointment) Complete(finalPrice *decimal.Decimal, at time.Time) (bool, error) {
	if a.Status == StatusCompleted {
		return false, nil
	}
	if finalPrice != nil && finalPrice.IsNegative() {
		return false, shared.ErrInvalidAmount.WithMessage("Final price cannot be negative")
	}
	if err := a.transition(StatusCompleted); err != nil {
		return false, err
	}
	if finalPrice != nil {
		a.FinalPrice = *finalPrice
	}
	a.CompletedAt = &at
	return true, nil
}

// Cancel cancels the appointment
func (a *Appointment) Cancel(reason string) error {
	if err := a.transition(StatusCancelled); err != nil {
		return err
	}
	a.CancelReason = reason
	return nil
}

// MarkNoShow records that the customer did not attend
func (a *Appointment) MarkNoShow() error {
	return a.transition(StatusNoShow)
}
