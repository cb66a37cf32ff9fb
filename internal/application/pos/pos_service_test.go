package pos

import (
	"context"
	"testing"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
)

type fixture struct {
	tenantID   uuid.UUID
	operatorID uuid.UUID
	scope      ledger.TransactionScope
	service    *SaleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)

	db, err := persistence.Open(sqlite.Open(":memory:"), persistence.Options{Logger: logger, LogLevel: "error"})
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.DB.AutoMigrate(models.AllModels()...))

	scope := persistence.NewGormTransactionScope(db.DB)
	transactions := ledger.NewTransactionLedger(scope, logger, nil)
	commissions := ledger.NewCommissionLedger(scope, logger, nil)
	stock := ledger.NewStockLedger(scope, transactions, nil, logger, nil)
	return &fixture{
		tenantID:   uuid.New(),
		operatorID: uuid.New(),
		scope:      scope,
		service: NewSaleService(scope,
			ledger.NewSaleFinalization(scope, stock, commissions, transactions, logger),
			ledger.NewCashRegisterReconciler(scope, logger),
			logger,
		),
	}
}

func (f *fixture) seed(t *testing.T, fn func(repos ledger.Repositories) error) {
	t.Helper()
	require.NoError(t, f.scope.Execute(context.Background(), fn))
}

func (f *fixture) newProduct(t *testing.T, stock string) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct(f.tenantID, "Hair wax", "WAX-1", decimal.NewFromInt(10), decimal.NewFromInt(35))
	require.NoError(t, err)
	p.StockQuantity = decimal.RequireFromString(stock)
	f.seed(t, func(repos ledger.Repositories) error { return repos.Products().Save(context.Background(), p) })
	return p
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSaleService_FullCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.newProduct(t, "5")
	serviceID, professionalID := uuid.New(), uuid.New()

	method, err := finance.NewPaymentMethod(f.tenantID, "Cash", finance.PaymentKindCash)
	require.NoError(t, err)
	method.MarkDefault()
	rule, err := commission.NewCommissionRule(f.tenantID, &professionalID, nil, d("50"), 0)
	require.NoError(t, err)
	f.seed(t, func(repos ledger.Repositories) error {
		if err := repos.PaymentMethods().Save(ctx, method); err != nil {
			return err
		}
		return repos.CommissionRules().Save(ctx, rule)
	})

	register, err := f.service.OpenRegister(ctx, f.tenantID, f.operatorID, OpenRegisterRequest{OpeningBalance: d("100")})
	require.NoError(t, err)
	assert.Equal(t, "OPEN", register.Status)

	sale, err := f.service.CreateSale(ctx, f.tenantID, f.operatorID, CreateSaleRequest{
		CustomerName: "Ana",
		Discount:     ptr(d("5")),
		Items: []SaleLineRequest{
			{ProductID: &product.ID, Description: "Hair wax", Quantity: d("2"), UnitPrice: d("35")},
			{ServiceID: &serviceID, ProfessionalID: &professionalID, Description: "Haircut", Quantity: d("1"), UnitPrice: d("40")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", sale.PaymentStatus)
	assert.True(t, sale.Total.Equal(d("105")))

	paid, err := f.service.PaySale(ctx, f.tenantID, f.operatorID, sale.ID, PaySaleRequest{CashRegisterID: &register.ID})
	require.NoError(t, err)
	assert.False(t, paid.AlreadyPaid)
	assert.Equal(t, "PAID", paid.Sale.PaymentStatus)
	assert.Equal(t, ledger.OutcomeCreated, paid.Transaction.Outcome)
	require.Len(t, paid.Movements, 1)
	require.Len(t, paid.Commissions, 1)
	assert.Equal(t, ledger.OutcomeCreated, paid.Commissions[0].Outcome)
	assert.Empty(t, paid.Warnings)
	require.NotNil(t, paid.Sale.PaymentMethodID)
	assert.Equal(t, method.ID, *paid.Sale.PaymentMethodID)

	again, err := f.service.PaySale(ctx, f.tenantID, f.operatorID, sale.ID, PaySaleRequest{CashRegisterID: &register.ID})
	require.NoError(t, err)
	assert.True(t, again.AlreadyPaid)
	assert.Equal(t, ledger.SkipDuplicate, again.Transaction.Reason)

	closed, err := f.service.CloseRegister(ctx, f.tenantID, register.ID, CloseRegisterRequest{ClosingBalance: d("200")})
	require.NoError(t, err)
	assert.True(t, closed.ExpectedBalance.Equal(d("205")))
	assert.True(t, closed.Difference.Equal(d("-5")))

	got, err := f.service.GetRegister(ctx, f.tenantID, register.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", got.Status)
}

func TestSaleService_CreateSale_RejectsForeignProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &fixture{tenantID: uuid.New(), scope: f.scope}
	foreign := other.newProduct(t, "3")

	_, err := f.service.CreateSale(ctx, f.tenantID, f.operatorID, CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: &foreign.ID, Quantity: d("1"), UnitPrice: d("35")}},
	})
	assert.True(t, shared.IsNotFound(err))
}

func TestSaleService_CreateSale_LineValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	serviceID := uuid.New()

	_, err := f.service.CreateSale(ctx, f.tenantID, f.operatorID, CreateSaleRequest{
		Items: []SaleLineRequest{{Quantity: d("1"), UnitPrice: d("10")}},
	})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.service.CreateSale(ctx, f.tenantID, f.operatorID, CreateSaleRequest{
		Discount: ptr(d("50")),
		Items:    []SaleLineRequest{{ServiceID: &serviceID, Quantity: d("1"), UnitPrice: d("10")}},
	})
	require.ErrorIs(t, err, shared.ErrInvalidAmount)

	_, err = f.service.CreateSale(ctx, f.tenantID, f.operatorID, CreateSaleRequest{})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestSaleService_PaySale_InsufficientStockLeavesSalePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.newProduct(t, "1")

	sale, err := f.service.CreateSale(ctx, f.tenantID, f.operatorID, CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: &product.ID, Quantity: d("2"), UnitPrice: d("35")}},
	})
	require.NoError(t, err)

	_, err = f.service.PaySale(ctx, f.tenantID, f.operatorID, sale.ID, PaySaleRequest{})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	got, err := f.service.GetSale(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.PaymentStatus)

	cancelled, err := f.service.CancelSale(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.PaymentStatus)
}

func TestSaleService_OpenRegisterTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.OpenRegister(ctx, f.tenantID, f.operatorID, OpenRegisterRequest{OpeningBalance: d("0")})
	require.NoError(t, err)
	_, err = f.service.OpenRegister(ctx, f.tenantID, f.operatorID, OpenRegisterRequest{OpeningBalance: d("0")})
	require.ErrorIs(t, err, shared.ErrRegisterAlreadyOpen)
}

func ptr[T any](v T) *T { return &v }
