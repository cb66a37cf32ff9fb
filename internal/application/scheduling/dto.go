package scheduling

import (
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookAppointmentRequest represents a request to book an appointment
type BookAppointmentRequest struct {
	CustomerID     uuid.UUID       `json:"customer_id" binding:"required"`
	ProfessionalID uuid.UUID       `json:"professional_id" binding:"required"`
	ServiceID      uuid.UUID       `json:"service_id" binding:"required"`
	StartTime      time.Time       `json:"start_time" binding:"required"`
	Price          decimal.Decimal `json:"price"`
}

// CompleteAppointmentRequest represents a request to complete an appointment.
// FinalPrice overrides the booked price when set.
type CompleteAppointmentRequest struct {
	FinalPrice *decimal.Decimal `json:"final_price"`
}

// CancelAppointmentRequest represents a request to cancel an appointment
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	ProfessionalID uuid.UUID       `json:"professional_id"`
	ServiceID      uuid.UUID       `json:"service_id"`
	Status         string          `json:"status"`
	StartTime      time.Time       `json:"start_time"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CompletionResponse reports an appointment completion and what it derived
type CompletionResponse struct {
	Appointment      AppointmentResponse      `json:"appointment"`
	AlreadyCompleted bool                     `json:"already_completed"`
	Commission       ledger.DerivationSummary `json:"commission"`
	Transaction      ledger.DerivationSummary `json:"transaction"`
	Warnings         []ledger.Warning         `json:"warnings"`
}

// ToAppointmentResponse converts a domain appointment to a response
func ToAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		ProfessionalID: a.ProfessionalID,
		ServiceID:      a.ServiceID,
		Status:         string(a.Status),
		StartTime:      a.StartTime,
		FinalPrice:     a.FinalPrice,
		CompletedAt:    a.CompletedAt,
		CancelReason:   a.CancelReason,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ToCompletionResponse converts a completion result to a response
func ToCompletionResponse(r *ledger.CompletionResult) CompletionResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []ledger.Warning{}
	}
	return CompletionResponse{
		Appointment:      ToAppointmentResponse(r.Appointment),
		AlreadyCompleted: r.AlreadyCompleted,
		Commission:       r.Commission.Summary(),
		Transaction:      r.Transaction.Summary(),
		Warnings:         warnings,
	}
}
