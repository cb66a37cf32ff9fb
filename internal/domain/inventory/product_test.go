package inventory

import (
	"testing"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T, stock, threshold int64) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Pomade", "POM-01", decimal.NewFromInt(12), decimal.NewFromInt(30))
	require.NoError(t, err)
	p.StockQuantity = decimal.NewFromInt(stock)
	p.MinStockThreshold = decimal.NewFromInt(threshold)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with zero stock", func(t *testing.T) {
		tenantID := uuid.New()
		p, err := NewProduct(tenantID, "  Shampoo ", "SH-1", decimal.NewFromInt(5), decimal.NewFromInt(15))

		require.NoError(t, err)
		assert.Equal(t, "Shampoo", p.Name)
		assert.Equal(t, tenantID, p.TenantID)
		assert.True(t, p.StockQuantity.IsZero())
		assert.True(t, p.Active)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), " ", "", decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "Gel", "", decimal.NewFromInt(-1), decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})
}

func TestProduct_ApplyMovement(t *testing.T) {
	actor := uuid.New()

	t.Run("inbound movement increases stock and records balances", func(t *testing.T) {
		p := createTestProduct(t, 5, 0)

		m, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionIn,
			Reason:    ReasonPurchase,
			Quantity:  decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.True(t, p.StockQuantity.Equal(decimal.NewFromInt(15)))
		assert.True(t, m.StockBefore.Equal(decimal.NewFromInt(5)))
		assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(15)))
		assert.True(t, m.UnitCost.Equal(p.CostPrice))
		assert.Equal(t, p.TenantID, m.TenantID)
		require.NotNil(t, m.CreatedBy)
		assert.Equal(t, actor, *m.CreatedBy)
		assert.Equal(t, 2, p.Version)
		assert.True(t, m.IsPurchase())
	})

	t.Run("supplied unit cost overrides product cost", func(t *testing.T) {
		p := createTestProduct(t, 0, 0)
		cost := decimal.RequireFromString("7.25")

		m, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionIn,
			Reason:    ReasonPurchase,
			Quantity:  decimal.NewFromInt(4),
			UnitCost:  &cost,
		})

		require.NoError(t, err)
		assert.Equal(t, "29.00", m.TotalCost().StringFixed(2))
	})

	t.Run("outbound beyond stock is rejected without mutation", func(t *testing.T) {
		p := createTestProduct(t, 2, 0)

		m, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionOut,
			Reason:    ReasonSale,
			Quantity:  decimal.NewFromInt(5),
		})

		assert.Nil(t, m)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, p.StockQuantity.Equal(decimal.NewFromInt(2)))
		assert.Equal(t, 1, p.Version)
		assert.Empty(t, p.PendingEvents())
	})

	t.Run("outbound of the whole balance empties stock", func(t *testing.T) {
		p := createTestProduct(t, 3, 0)

		m, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionOut,
			Reason:    ReasonLoss,
			Quantity:  decimal.NewFromInt(3),
		})

		require.NoError(t, err)
		assert.True(t, m.StockAfter.IsZero())
		events := p.PendingEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOutOfStock, events[0].EventType())
	})

	t.Run("rejects reason that does not match direction", func(t *testing.T) {
		p := createTestProduct(t, 3, 0)

		_, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionOut,
			Reason:    ReasonPurchase,
			Quantity:  decimal.NewFromInt(1),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p := createTestProduct(t, 3, 0)

		_, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionIn,
			Reason:    ReasonAdjustment,
			Quantity:  decimal.Zero,
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects quantity finer than four decimals", func(t *testing.T) {
		p := createTestProduct(t, 3, 0)

		_, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionIn,
			Reason:    ReasonAdjustment,
			Quantity:  decimal.RequireFromString("0.00001"),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.True(t, p.StockQuantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("accepts four decimals", func(t *testing.T) {
		p := createTestProduct(t, 3, 0)

		_, err := p.ApplyMovement(actor, MovementSpec{
			Direction: DirectionIn,
			Reason:    ReasonAdjustment,
			Quantity:  decimal.RequireFromString("0.0005"),
		})

		require.NoError(t, err)
		assert.Equal(t, "3.0005", p.StockQuantity.String())
	})

	t.Run("rejects half-specified source", func(t *testing.T) {
		p := createTestProduct(t, 3, 0)

		_, err := p.ApplyMovement(actor, MovementSpec{
			Direction:  DirectionOut,
			Reason:     ReasonSale,
			Quantity:   decimal.NewFromInt(1),
			SourceType: SourceTypeSaleItem,
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestProduct_ApplyMovement_LowStockCrossing(t *testing.T) {
	actor := uuid.New()
	out := func(q int64) MovementSpec {
		return MovementSpec{Direction: DirectionOut, Reason: ReasonInternalUse, Quantity: decimal.NewFromInt(q)}
	}

	t.Run("emits when crossing from above to at threshold", func(t *testing.T) {
		p := createTestProduct(t, 10, 5)

		_, err := p.ApplyMovement(actor, out(5))

		require.NoError(t, err)
		events := p.PendingEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*StockBelowThresholdEvent)
		require.True(t, ok)
		assert.True(t, evt.PreviousStock.Equal(decimal.NewFromInt(10)))
		assert.True(t, evt.CurrentStock.Equal(decimal.NewFromInt(5)))
	})

	t.Run("does not emit again while already below", func(t *testing.T) {
		p := createTestProduct(t, 4, 5)

		_, err := p.ApplyMovement(actor, out(1))

		require.NoError(t, err)
		assert.Empty(t, p.PendingEvents())
	})

	t.Run("does not emit when staying above", func(t *testing.T) {
		p := createTestProduct(t, 10, 5)

		_, err := p.ApplyMovement(actor, out(4))

		require.NoError(t, err)
		assert.Empty(t, p.PendingEvents())
	})

	t.Run("emits both events when emptying from above threshold", func(t *testing.T) {
		p := createTestProduct(t, 8, 5)

		_, err := p.ApplyMovement(actor, out(8))

		require.NoError(t, err)
		events := p.PullEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
		assert.Equal(t, EventTypeOutOfStock, events[1].EventType())
		assert.Empty(t, p.PendingEvents())
	})

	t.Run("inbound never emits", func(t *testing.T) {
		p := createTestProduct(t, 0, 5)

		_, err := p.ApplyMovement(actor, MovementSpec{Direction: DirectionIn, Reason: ReasonReturn, Quantity: decimal.NewFromInt(2)})

		require.NoError(t, err)
		assert.Empty(t, p.PendingEvents())
		assert.True(t, p.IsBelowThreshold())
	})
}

func TestReason_AllowsDirection(t *testing.T) {
	assert.True(t, ReasonAdjustment.AllowsDirection(DirectionIn))
	assert.True(t, ReasonAdjustment.AllowsDirection(DirectionOut))
	assert.True(t, ReasonInitial.AllowsDirection(DirectionIn))
	assert.False(t, ReasonSale.AllowsDirection(DirectionIn))
	assert.False(t, Reason("BOGUS").AllowsDirection(DirectionIn))
}
