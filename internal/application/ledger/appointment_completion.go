package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CompleteAppointmentRequest asks to complete an appointment
type CompleteAppointmentRequest struct {
	TenantID      uuid.UUID
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	// FinalPrice overrides the booked price when set
	FinalPrice *decimal.Decimal
}

// CompletionResult reports what completing an appointment derived
type CompletionResult struct {
	Appointment      *scheduling.Appointment
	AlreadyCompleted bool
	Commission       CommissionResult
	Transaction      TransactionResult
	Warnings         []Warning
}

// AppointmentCompletion completes appointments and derives their commission
// and revenue transaction in the same unit of work.
type AppointmentCompletion struct {
	scope        TransactionScope
	commissions  *CommissionLedger
	transactions *TransactionLedger
	logger       *zap.Logger
	now          func() time.Time
}

// NewAppointmentCompletion creates a new AppointmentCompletion
func NewAppointmentCompletion(
	scope TransactionScope,
	commissions *CommissionLedger,
	transactions *TransactionLedger,
	logger *zap.Logger,
) *AppointmentCompletion {
	return &AppointmentCompletion{
		scope:        scope,
		commissions:  commissions,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// Complete moves the appointment to COMPLETED. Completing it again re-runs the
// derivations, which skip as duplicates.
func (s *AppointmentCompletion) Complete(ctx context.Context, req CompleteAppointmentRequest) (*CompletionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "appointment_completion", "complete")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		telemetry.SpanAttrActorID, req.ActorID.String(),
		telemetry.SpanAttrAppointmentID, req.AppointmentID.String(),
	)

	var result *CompletionResult
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = s.complete(ctx, repos, req)
		return err
	})
	if err != nil {
		s.logger.Error("appointment completion failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("appointment_id", req.AppointmentID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("appointment completed",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("appointment_id", req.AppointmentID.String()),
		zap.Bool("already_completed", result.AlreadyCompleted),
		zap.String("commission", string(result.Commission.Outcome)),
		zap.String("transaction", string(result.Transaction.Outcome)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (s *AppointmentCompletion) complete(ctx context.Context, repos Repositories, req CompleteAppointmentRequest) (*CompletionResult, error) {
	appt, err := repos.Appointments().FindByIDForUpdate(ctx, req.TenantID, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	changed, err := appt.Complete(req.FinalPrice, s.now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := repos.Appointments().Save(ctx, appt); err != nil {
			return nil, fmt.Errorf("failed to save appointment: %w", err)
		}
	}

	result := &CompletionResult{Appointment: appt, AlreadyCompleted: !changed}

	if appt.FinalPrice.IsPositive() {
		appointmentID := appt.ID
		result.Commission, err = s.commissions.OnWorkCompletedIn(ctx, repos, commission.WorkCompleted{
			TenantID:       appt.TenantID,
			ProfessionalID: appt.ProfessionalID,
			SourceType:     commission.SourceAppointment,
			SourceID:       appt.ID,
			AppointmentID:  &appointmentID,
			ServiceID:      appt.ServiceID,
			BaseAmount:     appt.FinalPrice,
			EarnedDate:     *appt.CompletedAt,
		})
		if err != nil {
			return nil, err
		}
		if result.Commission.Reason == SkipNoRule {
			result.Warnings = append(result.Warnings, Warning{
				Code:    WarningNoRule,
				Message: fmt.Sprintf("No commission rule applies to professional %s for service %s", appt.ProfessionalID, appt.ServiceID),
			})
		}
	} else {
		result.Commission = CommissionResult{Outcome: OutcomeSkipped, Reason: SkipZeroAmount}
	}

	result.Transaction, err = s.transactions.OnAppointmentCompletedIn(ctx, repos, req.ActorID, appt)
	switch {
	case errors.Is(err, shared.ErrMissingPaymentMethod):
		result.Transaction = TransactionResult{Outcome: OutcomeSkipped}
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarningMissingPaymentMethod,
			Message: "No active default payment method; revenue for this appointment was not recorded",
		})
	case err != nil:
		return nil, err
	}

	if result.Transaction.Reason == SkipZeroAmount {
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarningZeroAmount,
			Message: "Appointment has no final price; nothing was recorded",
		})
	}

	return result, nil
}
