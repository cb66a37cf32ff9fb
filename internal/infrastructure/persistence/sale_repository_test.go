package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T, tenantID uuid.UUID) *pos.Sale {
	t.Helper()
	sale := pos.NewSale(tenantID, nil, "Ana")
	_, err := sale.AddProductLine(uuid.New(), nil, "Pomade", dec("2"), dec("35.00"))
	require.NoError(t, err)
	pro := uuid.New()
	_, err = sale.AddServiceLine(uuid.New(), &pro, "Haircut", dec("1"), dec("40.00"))
	require.NoError(t, err)
	return sale
}

func TestGormSaleRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	sale := newTestSale(t, tenantID)
	require.NoError(t, sale.ApplyDiscount(dec("10.00")))
	require.NoError(t, repo.Save(ctx, sale))

	found, err := repo.FindByID(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, pos.PaymentStatusPending, found.PaymentStatus)
	assert.Equal(t, "Ana", found.CustomerName)
	assert.True(t, dec("110.00").Equal(found.Subtotal))
	assert.True(t, dec("100.00").Equal(found.Total))
	require.Len(t, found.Items, 2)
	require.NoError(t, found.CheckTotals())

	var products, services int
	for _, item := range found.Items {
		assert.Equal(t, sale.ID, item.SaleID)
		if item.IsProduct() {
			products++
		} else {
			services++
			assert.True(t, item.HasProfessional())
		}
	}
	assert.Equal(t, 1, products)
	assert.Equal(t, 1, services)

	t.Run("removed lines are deleted", func(t *testing.T) {
		found.Items = found.Items[:1]
		found.Subtotal = found.Items[0].Total
		found.Discount = dec("0")
		found.Total = found.Subtotal
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByIDForUpdate(ctx, tenantID, sale.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 1)
		assert.Equal(t, found.Items[0].ID, reloaded.Items[0].ID)

		var count int64
		require.NoError(t, db.Table("sale_items").Where("sale_id = ?", sale.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("other tenant sees not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New(), sale.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSaleRepository_SumPaidByRegister(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	registers := NewGormCashRegisterRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	reg, err := pos.OpenCashRegister(tenantID, uuid.New(), dec("50.00"), time.Now().UTC())
	require.NoError(t, err)
	_, err = registers.CreateIfNoneOpen(ctx, reg)
	require.NoError(t, err)

	total, err := repo.SumPaidByRegister(ctx, tenantID, reg.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "no sales sums to zero")

	paid := newTestSale(t, tenantID)
	require.NoError(t, paid.AttachToRegister(reg))
	require.NoError(t, paid.MarkPaid(time.Now().UTC()))
	require.NoError(t, repo.Save(ctx, paid))

	pending := newTestSale(t, tenantID)
	require.NoError(t, pending.AttachToRegister(reg))
	require.NoError(t, repo.Save(ctx, pending))

	elsewhere := newTestSale(t, tenantID)
	require.NoError(t, elsewhere.MarkPaid(time.Now().UTC()))
	require.NoError(t, repo.Save(ctx, elsewhere))

	total, err = repo.SumPaidByRegister(ctx, tenantID, reg.ID)
	require.NoError(t, err)
	assert.True(t, dec("110.00").Equal(total), "got %s", total)
}

func TestGormCashRegisterRepository_OneOpenPerOperator(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCashRegisterRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	operator := uuid.New()

	first, err := pos.OpenCashRegister(tenantID, operator, dec("100.00"), time.Now().UTC())
	require.NoError(t, err)
	inserted, err := repo.CreateIfNoneOpen(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second, err := pos.OpenCashRegister(tenantID, operator, dec("20.00"), time.Now().UTC())
	require.NoError(t, err)
	inserted, err = repo.CreateIfNoneOpen(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted, "operator already has an open register")

	open, err := repo.FindOpenByOperator(ctx, tenantID, operator)
	require.NoError(t, err)
	assert.Equal(t, first.ID, open.ID)

	t.Run("another operator may open", func(t *testing.T) {
		other, err := pos.OpenCashRegister(tenantID, uuid.New(), dec("0"), time.Now().UTC())
		require.NoError(t, err)
		inserted, err := repo.CreateIfNoneOpen(ctx, other)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("closing frees the operator", func(t *testing.T) {
		locked, err := repo.FindByIDForUpdate(ctx, tenantID, first.ID)
		require.NoError(t, err)
		require.NoError(t, locked.Close(dec("100.00"), dec("0"), "end of day", time.Now().UTC()))
		require.NoError(t, repo.SaveWithLock(ctx, locked))

		_, err = repo.FindOpenByOperator(ctx, tenantID, operator)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		inserted, err := repo.CreateIfNoneOpen(ctx, second)
		require.NoError(t, err)
		assert.True(t, inserted)

		closed, err := repo.FindByID(ctx, tenantID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, pos.RegisterStatusClosed, closed.Status)
		assert.True(t, closed.Difference.IsZero())
		assert.Equal(t, "end of day", closed.Notes)
	})

	t.Run("stale close is a conflict", func(t *testing.T) {
		a, err := repo.FindByID(ctx, tenantID, second.ID)
		require.NoError(t, err)
		b, err := repo.FindByID(ctx, tenantID, second.ID)
		require.NoError(t, err)

		require.NoError(t, a.Close(dec("20.00"), dec("0"), "", time.Now().UTC()))
		require.NoError(t, repo.SaveWithLock(ctx, a))

		require.NoError(t, b.Close(dec("25.00"), dec("0"), "", time.Now().UTC()))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, b), shared.ErrConcurrencyConflict)
	})
}

func TestGormAppointmentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAppointmentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	appt := newTestAppointment(t, tenantID, "80.00")
	require.NoError(t, repo.Save(ctx, appt))

	locked, err := repo.FindByIDForUpdate(ctx, tenantID, appt.ID)
	require.NoError(t, err)
	final := dec("90.00")
	completed, err := locked.Complete(&final, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, completed)
	require.NoError(t, repo.Save(ctx, locked))

	found, err := repo.FindByID(ctx, tenantID, appt.ID)
	require.NoError(t, err)
	assert.True(t, found.Status.IsTerminal())
	assert.True(t, final.Equal(found.FinalPrice))
	assert.NotNil(t, found.CompletedAt)

	_, err = repo.FindByID(ctx, uuid.New(), appt.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
