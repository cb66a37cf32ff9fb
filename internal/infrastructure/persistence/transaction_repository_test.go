package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(t *testing.T, tenantID uuid.UUID, category finance.Category, source finance.SourceType, amount string, date time.Time) *finance.Transaction {
	t.Helper()
	tx, err := finance.NewTransaction(finance.NewTransactionParams{
		TenantID:    tenantID,
		ActorID:     uuid.New(),
		Category:    category,
		Amount:      dec(amount),
		Date:        date,
		Description: "test",
		SourceType:  source,
		SourceID:    uuid.New(),
	})
	require.NoError(t, err)
	return tx
}

func TestGormTransactionRepository_CreateIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	tx := newTestTransaction(t, tenantID, finance.CategoryServiceRevenue, finance.SourceAppointment, "80.00", time.Now().UTC())

	inserted, err := repo.CreateIfAbsent(ctx, tx)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := *tx
	dup.ID = uuid.New()
	dup.Amount = dec("999.00")
	inserted, err = repo.CreateIfAbsent(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	found, err := repo.FindBySource(ctx, tenantID, finance.SourceAppointment, tx.SourceID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, found.ID)
	assert.True(t, dec("80.00").Equal(found.Amount))
	assert.Equal(t, finance.TransactionTypeIncome, found.Type)

	t.Run("same source id in another tenant is independent", func(t *testing.T) {
		other := *tx
		other.ID = uuid.New()
		other.TenantID = uuid.New()
		inserted, err := repo.CreateIfAbsent(ctx, &other)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("missing source is not found", func(t *testing.T) {
		_, err := repo.FindBySource(ctx, tenantID, finance.SourceSale, tx.SourceID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTransactionRepository_FindByDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	revenue := newTestTransaction(t, tenantID, finance.CategoryServiceRevenue, finance.SourceAppointment, "50.00", day(1))
	sale := newTestTransaction(t, tenantID, finance.CategoryProductSale, finance.SourceSale, "70.00", day(2))
	expense := newTestTransaction(t, tenantID, finance.CategorySupplierExpense, finance.SourceStockMovement, "20.00", day(3))
	outside := newTestTransaction(t, tenantID, finance.CategoryProductSale, finance.SourceSale, "10.00", day(20))
	for _, tx := range []*finance.Transaction{revenue, sale, expense, outside} {
		_, err := repo.CreateIfAbsent(ctx, tx)
		require.NoError(t, err)
	}

	got, total, err := repo.FindByDateRange(ctx, tenantID, day(1), day(10), shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 3)
	assert.Equal(t, expense.ID, got[0].ID, "newest first")

	expenses, total, err := repo.FindByDateRange(ctx, tenantID, time.Time{}, time.Time{},
		shared.Filter{Filters: map[string]interface{}{"type": finance.TransactionTypeExpense}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, expenses, 1)
	assert.Equal(t, expense.ID, expenses[0].ID)

	sales, total, err := repo.FindByDateRange(ctx, tenantID, time.Time{}, time.Time{},
		shared.Filter{Filters: map[string]interface{}{"source_type": finance.SourceSale}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sales, 2)
}

func TestGormPaymentMethodRepository_FindActiveDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentMethodRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	_, err := repo.FindActiveDefault(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	card, err := finance.NewPaymentMethod(tenantID, "Card", finance.PaymentKindCard)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, card))

	_, err = repo.FindActiveDefault(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "non-default methods are ignored")

	cash, err := finance.NewPaymentMethod(tenantID, "Cash", finance.PaymentKindCash)
	require.NoError(t, err)
	cash.MarkDefault()
	require.NoError(t, repo.Save(ctx, cash))

	found, err := repo.FindActiveDefault(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, cash.ID, found.ID)
	assert.True(t, found.IsUsableDefault())

	cash.Deactivate()
	require.NoError(t, repo.Save(ctx, cash))
	_, err = repo.FindActiveDefault(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.New(), card.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
