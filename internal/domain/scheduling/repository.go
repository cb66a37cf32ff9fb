package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// FindByID finds an appointment within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error)

	// FindByIDForUpdate finds an appointment and row-locks it
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error)

	// Save creates or updates an appointment
	Save(ctx context.Context, appointment *Appointment) error
}
