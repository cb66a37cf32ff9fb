package ledger

import (
	"context"
	"testing"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appointmentWork(f *fixture, professionalID, serviceID uuid.UUID, base string) commission.WorkCompleted {
	apptID := uuid.New()
	return commission.WorkCompleted{
		TenantID:       f.tenantID,
		ProfessionalID: professionalID,
		SourceType:     commission.SourceAppointment,
		SourceID:       apptID,
		AppointmentID:  &apptID,
		ServiceID:      serviceID,
		BaseAmount:     d(base),
		EarnedDate:     fixedNow,
	}
}

func TestCommissionLedger_ThirtyPercentOfHundred(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	rule := f.addRule(t, f.tenantID, &pro, &svc, "30", 0)

	res, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, "100.00"))
	require.NoError(t, err)

	require.True(t, res.Created())
	assert.True(t, d("30.00").Equal(res.Commission.Amount))
	assert.Equal(t, commission.StatusPending, res.Commission.Status)
	assert.Equal(t, &rule.ID, res.Commission.RuleID)
	assert.Len(t, f.store.commissions, 1)
}

func TestCommissionLedger_RoundsHalfAwayFromZero(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, nil, nil, "15", 0)

	res, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, "33.30"))
	require.NoError(t, err)

	// 33.30 * 15% = 4.995
	assert.True(t, d("5.00").Equal(res.Commission.Amount), res.Commission.Amount.String())
}

func TestCommissionLedger_DuplicateIsSkipped(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, &pro, nil, "40", 0)
	work := appointmentWork(f, pro, svc, "80.00")

	first, err := f.commissions.OnWorkCompleted(context.Background(), work)
	require.NoError(t, err)
	second, err := f.commissions.OnWorkCompleted(context.Background(), work)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCreated, first.Outcome)
	assert.Equal(t, OutcomeSkipped, second.Outcome)
	assert.Equal(t, SkipDuplicate, second.Reason)
	assert.Equal(t, first.Commission.ID, second.Commission.ID)
	assert.Len(t, f.store.commissions, 1)
}

func TestCommissionLedger_LostInsertRaceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, nil, &svc, "10", 0)
	f.store.loseInsertRace = true

	res, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, "50.00"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Equal(t, SkipDuplicate, res.Reason)
	require.NotNil(t, res.Commission)
	assert.Len(t, f.store.commissions, 1)
}

func TestCommissionLedger_NoRule(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, ptr(uuid.New()), nil, "50", 0)

	res, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, "50.00"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Equal(t, SkipNoRule, res.Reason)
	assert.Nil(t, res.Commission)
	assert.Empty(t, f.store.commissions)
}

func TestCommissionLedger_InactiveRuleIsIgnored(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	specific := f.addRule(t, f.tenantID, &pro, &svc, "50", 0)
	f.addRule(t, f.tenantID, nil, nil, "10", 0)
	f.store.rules[0].Active = false

	res, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, "100.00"))
	require.NoError(t, err)

	assert.NotEqual(t, &specific.ID, res.Commission.RuleID)
	assert.True(t, d("10.00").Equal(res.Commission.Amount))
}

func TestCommissionLedger_IgnoresOtherTenantRules(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, uuid.New(), &pro, &svc, "90", 100)
	f.addRule(t, f.tenantID, nil, nil, "20", 0)

	res, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, "100.00"))
	require.NoError(t, err)

	assert.True(t, d("20.00").Equal(res.Commission.Amount))
	assert.Equal(t, f.tenantID, res.Commission.TenantID)
}

func TestCommissionLedger_InvalidBaseAmount(t *testing.T) {
	f := newFixture(t)
	pro, svc := uuid.New(), uuid.New()
	f.addRule(t, f.tenantID, nil, nil, "20", 0)

	for _, base := range []string{"0", "-5"} {
		_, err := f.commissions.OnWorkCompleted(context.Background(), appointmentWork(f, pro, svc, base))
		assert.ErrorIs(t, err, shared.ErrInvalidAmount, base)
	}
	assert.Empty(t, f.store.commissions)
}
