package scheduling

import (
	"context"
	"strings"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppointmentService books appointments and drives their status machine.
// Completion goes through AppointmentCompletion so the commission and the
// revenue transaction are derived in the same unit of work.
type AppointmentService struct {
	scope      ledger.TransactionScope
	completion *ledger.AppointmentCompletion
	logger     *zap.Logger
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(scope ledger.TransactionScope, completion *ledger.AppointmentCompletion, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		scope:      scope,
		completion: completion,
		logger:     logger,
	}
}

// Book creates a SCHEDULED appointment
func (s *AppointmentService) Book(ctx context.Context, tenantID, actorID uuid.UUID, req BookAppointmentRequest) (*AppointmentResponse, error) {
	appt, err := scheduling.NewAppointment(tenantID, req.CustomerID, req.ProfessionalID, req.ServiceID, req.StartTime.UTC(), req.Price)
	if err != nil {
		return nil, err
	}
	appt.SetCreatedBy(actorID)

	err = s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		return repos.Appointments().Save(ctx, appt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("tenant_id", tenantID.String()),
		zap.String("appointment_id", appt.ID.String()),
		zap.String("professional_id", appt.ProfessionalID.String()),
		zap.Time("start_time", appt.StartTime),
	)
	resp := ToAppointmentResponse(appt)
	return &resp, nil
}

// Get returns an appointment
func (s *AppointmentService) Get(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	var resp AppointmentResponse
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		appt, err := repos.Appointments().FindByID(ctx, tenantID, appointmentID)
		if err != nil {
			return err
		}
		resp = ToAppointmentResponse(appt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Confirm moves a scheduled appointment to CONFIRMED
func (s *AppointmentService) Confirm(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, tenantID, appointmentID, (*scheduling.Appointment).Confirm)
}

// Start moves an appointment to IN_PROGRESS
func (s *AppointmentService) Start(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, tenantID, appointmentID, (*scheduling.Appointment).Start)
}

// Cancel cancels an appointment that has not finished
func (s *AppointmentService) Cancel(ctx context.Context, tenantID, appointmentID uuid.UUID, req CancelAppointmentRequest) (*AppointmentResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	return s.transition(ctx, tenantID, appointmentID, func(a *scheduling.Appointment) error {
		return a.Cancel(reason)
	})
}

// MarkNoShow records that the customer did not attend
func (s *AppointmentService) MarkNoShow(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, tenantID, appointmentID, (*scheduling.Appointment).MarkNoShow)
}

func (s *AppointmentService) transition(ctx context.Context, tenantID, appointmentID uuid.UUID, fn func(*scheduling.Appointment) error) (*AppointmentResponse, error) {
	var appt *scheduling.Appointment
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		appt, err = repos.Appointments().FindByIDForUpdate(ctx, tenantID, appointmentID)
		if err != nil {
			return err
		}
		if err := fn(appt); err != nil {
			return err
		}
		return repos.Appointments().Save(ctx, appt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("appointment_id", appt.ID.String()),
		zap.String("status", string(appt.Status)),
	)
	resp := ToAppointmentResponse(appt)
	return &resp, nil
}

// Complete completes the appointment and derives its commission and revenue.
// Completing it again is safe and reports the derivations as skipped.
func (s *AppointmentService) Complete(ctx context.Context, tenantID, actorID, appointmentID uuid.UUID, req CompleteAppointmentRequest) (*CompletionResponse, error) {
	result, err := s.completion.Complete(ctx, ledger.CompleteAppointmentRequest{
		TenantID:      tenantID,
		ActorID:       actorID,
		AppointmentID: appointmentID,
		FinalPrice:    req.FinalPrice,
	})
	if err != nil {
		return nil, err
	}
	resp := ToCompletionResponse(result)
	return &resp, nil
}
