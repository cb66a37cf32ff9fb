package ledger

import (
	"context"
	"testing"

	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentCompletion_DerivesCommissionAndRevenue(t *testing.T) {
	f := newFixture(t)
	f.addDefaultMethod(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, &pro, &svc, "30", 0)
	appt := f.addAppointment(t, pro, svc, "100.00")

	res, err := f.appointments.Complete(context.Background(), CompleteAppointmentRequest{
		TenantID:      f.tenantID,
		ActorID:       f.actorID,
		AppointmentID: appt.ID,
	})
	require.NoError(t, err)

	assert.False(t, res.AlreadyCompleted)
	assert.Equal(t, scheduling.StatusCompleted, res.Appointment.Status)
	assert.Equal(t, scheduling.StatusCompleted, f.store.appointments[appt.ID].Status)
	require.True(t, res.Commission.Created())
	assert.True(t, d("30.00").Equal(res.Commission.Commission.Amount))
	require.True(t, res.Transaction.Created())
	assert.True(t, d("100.00").Equal(res.Transaction.Transaction.Amount))
	assert.Empty(t, res.Warnings)
}

func TestAppointmentCompletion_FinalPriceOverride(t *testing.T) {
	f := newFixture(t)
	f.addDefaultMethod(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, nil, nil, "10", 0)
	appt := f.addAppointment(t, pro, svc, "100.00")

	res, err := f.appointments.Complete(context.Background(), CompleteAppointmentRequest{
		TenantID:      f.tenantID,
		ActorID:       f.actorID,
		AppointmentID: appt.ID,
		FinalPrice:    ptr(d("80.00")),
	})
	require.NoError(t, err)

	assert.True(t, d("8.00").Equal(res.Commission.Commission.Amount))
	assert.True(t, d("80.00").Equal(res.Transaction.Transaction.Amount))
}

func TestAppointmentCompletion_CompletingTwiceCreatesNothingNew(t *testing.T) {
	f := newFixture(t)
	f.addDefaultMethod(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, nil, nil, "10", 0)
	appt := f.addAppointment(t, pro, svc, "50.00")
	req := CompleteAppointmentRequest{TenantID: f.tenantID, ActorID: f.actorID, AppointmentID: appt.ID}

	_, err := f.appointments.Complete(context.Background(), req)
	require.NoError(t, err)
	res, err := f.appointments.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.AlreadyCompleted)
	assert.Equal(t, SkipDuplicate, res.Commission.Reason)
	assert.Equal(t, SkipDuplicate, res.Transaction.Reason)
	assert.Len(t, f.store.commissions, 1)
	assert.Len(t, f.store.transactions, 1)
}

func TestAppointmentCompletion_MissingPaymentMethodIsAWarning(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, nil, nil, "10", 0)
	appt := f.addAppointment(t, pro, svc, "50.00")

	res, err := f.appointments.Complete(context.Background(), CompleteAppointmentRequest{
		TenantID:      f.tenantID,
		ActorID:       f.actorID,
		AppointmentID: appt.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, scheduling.StatusCompleted, f.store.appointments[appt.ID].Status)
	assert.True(t, res.Commission.Created())
	assert.Equal(t, OutcomeSkipped, res.Transaction.Outcome)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningMissingPaymentMethod, res.Warnings[0].Code)
	assert.Empty(t, f.store.transactions)
}

func TestAppointmentCompletion_NoRuleWarning(t *testing.T) {
	f := newFixture(t)
	f.addDefaultMethod(t)
	appt := f.addAppointment(t, uuid.New(), uuid.New(), "50.00")

	res, err := f.appointments.Complete(context.Background(), CompleteAppointmentRequest{
		TenantID:      f.tenantID,
		ActorID:       f.actorID,
		AppointmentID: appt.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, SkipNoRule, res.Commission.Reason)
	assert.True(t, res.Transaction.Created())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningNoRule, res.Warnings[0].Code)
}

func TestAppointmentCompletion_ZeroPrice(t *testing.T) {
	f := newFixture(t)
	f.addDefaultMethod(t)
	f.addRule(t, f.tenantID, nil, nil, "10", 0)
	appt := f.addAppointment(t, uuid.New(), uuid.New(), "0")

	res, err := f.appointments.Complete(context.Background(), CompleteAppointmentRequest{
		TenantID:      f.tenantID,
		ActorID:       f.actorID,
		AppointmentID: appt.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, SkipZeroAmount, res.Commission.Reason)
	assert.Equal(t, SkipZeroAmount, res.Transaction.Reason)
	assert.Empty(t, f.store.commissions)
	assert.Empty(t, f.store.transactions)
}

func TestAppointmentCompletion_CancelledCannotComplete(t *testing.T) {
	f := newFixture(t)
	appt := f.addAppointment(t, uuid.New(), uuid.New(), "50.00")
	stored := f.store.appointments[appt.ID]
	require.NoError(t, stored.Cancel("customer request"))
	f.store.appointments[appt.ID] = stored

	_, err := f.appointments.Complete(context.Background(), CompleteAppointmentRequest{
		TenantID:      f.tenantID,
		ActorID:       f.actorID,
		AppointmentID: appt.ID,
	})

	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
