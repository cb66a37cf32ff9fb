package finance

import (
	"testing"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewTransactionParams {
	return NewTransactionParams{
		TenantID:    uuid.New(),
		ActorID:     uuid.New(),
		Category:    CategoryServiceRevenue,
		Amount:      decimal.NewFromInt(100),
		Date:        time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Description: " Haircut ",
		SourceType:  SourceAppointment,
		SourceID:    uuid.New(),
	}
}

func TestNewTransaction(t *testing.T) {
	t.Run("creates income transaction", func(t *testing.T) {
		p := validParams()

		tx, err := NewTransaction(p)

		require.NoError(t, err)
		assert.Equal(t, TransactionTypeIncome, tx.Type)
		assert.Equal(t, "Haircut", tx.Description)
		require.NotNil(t, tx.CreatedBy)
		assert.Equal(t, p.ActorID, *tx.CreatedBy)
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("supplier expense is an expense", func(t *testing.T) {
		p := validParams()
		p.Category = CategorySupplierExpense
		p.SourceType = SourceStockMovement

		tx, err := NewTransaction(p)

		require.NoError(t, err)
		assert.Equal(t, TransactionTypeExpense, tx.Type)
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(-100)))
	})

	t.Run("defaults date to creation time", func(t *testing.T) {
		p := validParams()
		p.Date = time.Time{}

		tx, err := NewTransaction(p)

		require.NoError(t, err)
		assert.Equal(t, tx.CreatedAt, tx.Date)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		p := validParams()
		p.Amount = decimal.Zero

		_, err := NewTransaction(p)

		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects missing source", func(t *testing.T) {
		p := validParams()
		p.SourceID = uuid.Nil

		_, err := NewTransaction(p)

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		p := validParams()
		p.Category = "TIPS"

		_, err := NewTransaction(p)

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPaymentMethod(t *testing.T) {
	m, err := NewPaymentMethod(uuid.New(), "Cash drawer", PaymentKindCash)
	require.NoError(t, err)
	assert.False(t, m.IsUsableDefault())

	m.MarkDefault()
	assert.True(t, m.IsUsableDefault())

	m.Deactivate()
	assert.False(t, m.IsUsableDefault())
	assert.False(t, m.IsDefault)

	_, err = NewPaymentMethod(uuid.New(), "Crypto", "BTC")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestPaymentMethod_ClearDefault(t *testing.T) {
	m, err := NewPaymentMethod(uuid.New(), "Card terminal", PaymentKindCard)
	require.NoError(t, err)

	before := m.Version
	m.ClearDefault()
	assert.Equal(t, before, m.Version)

	m.MarkDefault()
	m.ClearDefault()
	assert.False(t, m.IsDefault)
	assert.True(t, m.Active)
	assert.Equal(t, before+2, m.Version)
}
