package finance

import (
	"context"
	"testing"
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType finance.SourceType, sourceID uuid.UUID) (*finance.Transaction, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CreateIfAbsent(ctx context.Context, t *finance.Transaction) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]finance.Transaction, int64, error) {
	args := m.Called(ctx, tenantID, from, to, filter)
	return args.Get(0).([]finance.Transaction), args.Get(1).(int64), args.Error(2)
}

type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PaymentMethod, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindActiveDefault(ctx context.Context, tenantID uuid.UUID) (*finance.PaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) Save(ctx context.Context, method *finance.PaymentMethod) error {
	return m.Called(ctx, method).Error(0)
}

func newService(transactions *MockTransactionRepository, methods *MockPaymentMethodRepository) *TransactionService {
	scope := ledger.NewNoOpTransactionScope(ledger.RepositorySet{
		TransactionRepo:   transactions,
		PaymentMethodRepo: methods,
	})
	return NewTransactionService(scope, zap.NewNop())
}

func newTransaction(t *testing.T, tenantID uuid.UUID, category finance.Category, amount string) finance.Transaction {
	t.Helper()
	sourceType := finance.SourceSale
	if category == finance.CategorySupplierExpense {
		sourceType = finance.SourceStockMovement
	}
	tx, err := finance.NewTransaction(finance.NewTransactionParams{
		TenantID:   tenantID,
		ActorID:    uuid.New(),
		Category:   category,
		Amount:     decimal.RequireFromString(amount),
		SourceType: sourceType,
		SourceID:   uuid.New(),
	})
	require.NoError(t, err)
	return *tx
}

func TestTransactionService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	transactions := new(MockTransactionRepository)
	transactions.On("FindByDateRange", ctx, tenantID, from, to, shared.Filter{
		Page:     1,
		PageSize: 20,
		Filters:  map[string]interface{}{"source_type": finance.SourceSale},
	}).Return([]finance.Transaction{
		newTransaction(t, tenantID, finance.CategoryProductSale, "110.00"),
		newTransaction(t, tenantID, finance.CategoryServiceRevenue, "80.00"),
		newTransaction(t, tenantID, finance.CategorySupplierExpense, "50.00"),
	}, int64(3), nil)

	items, total, summary, err := newService(transactions, nil).ListTransactions(ctx, tenantID, TransactionListFilter{
		From:       &from,
		To:         &to,
		SourceType: "SALE",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.True(t, items[2].SignedAmount.Equal(decimal.RequireFromString("-50")))
	assert.True(t, summary.Income.Equal(decimal.RequireFromString("190")))
	assert.True(t, summary.Expense.Equal(decimal.RequireFromString("50")))
	assert.True(t, summary.Net.Equal(decimal.RequireFromString("140")))
}

func TestTransactionService_ListTransactions_InvertedRange(t *testing.T) {
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	transactions := new(MockTransactionRepository)

	_, _, _, err := newService(transactions, nil).ListTransactions(context.Background(), uuid.New(), TransactionListFilter{From: &from, To: &from})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
	transactions.AssertNotCalled(t, "FindByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionService_GetBySource(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	tx := newTransaction(t, tenantID, finance.CategoryProductSale, "35.00")

	transactions := new(MockTransactionRepository)
	transactions.On("FindBySource", ctx, tenantID, finance.SourceSale, tx.SourceID).Return(&tx, nil)
	svc := newService(transactions, nil)

	resp, err := svc.GetBySource(ctx, tenantID, "sale", tx.SourceID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, resp.ID)
	assert.Equal(t, "INCOME", resp.Type)

	_, err = svc.GetBySource(ctx, tenantID, "INVOICE", tx.SourceID)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestTransactionService_CreatePaymentMethod_TakesOverDefault(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	current, err := finance.NewPaymentMethod(tenantID, "Cash", finance.PaymentKindCash)
	require.NoError(t, err)
	current.MarkDefault()

	methods := new(MockPaymentMethodRepository)
	methods.On("FindActiveDefault", ctx, tenantID).Return(current, nil)
	methods.On("Save", ctx, mock.AnythingOfType("*finance.PaymentMethod")).Return(nil)

	resp, err := newService(nil, methods).CreatePaymentMethod(ctx, tenantID, uuid.New(), CreatePaymentMethodRequest{
		Name:      "Pix",
		Kind:      "pix",
		IsDefault: true,
	})
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	assert.Equal(t, "PIX", resp.Kind)
	assert.False(t, current.IsDefault)
	methods.AssertNumberOfCalls(t, "Save", 2)
}

func TestTransactionService_CreatePaymentMethod_FirstDefault(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	methods := new(MockPaymentMethodRepository)
	methods.On("FindActiveDefault", ctx, tenantID).Return(nil, shared.ErrNotFound)
	methods.On("Save", ctx, mock.AnythingOfType("*finance.PaymentMethod")).Return(nil)

	resp, err := newService(nil, methods).CreatePaymentMethod(ctx, tenantID, uuid.New(), CreatePaymentMethodRequest{
		Name:      "Cash",
		Kind:      "CASH",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	methods.AssertNumberOfCalls(t, "Save", 1)
}

func TestTransactionService_DeactivatePaymentMethod(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	method, err := finance.NewPaymentMethod(tenantID, "Card", finance.PaymentKindCard)
	require.NoError(t, err)
	method.MarkDefault()

	methods := new(MockPaymentMethodRepository)
	methods.On("FindByID", ctx, tenantID, method.ID).Return(method, nil)
	methods.On("Save", ctx, method).Return(nil)

	resp, err := newService(nil, methods).DeactivatePaymentMethod(ctx, tenantID, method.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.False(t, resp.IsDefault)
}
