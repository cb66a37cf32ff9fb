package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

type fixture struct {
	store     *memStore
	tenantID  uuid.UUID
	actorID   uuid.UUID
	publisher *recordingPublisher

	transactions *TransactionLedger
	commissions  *CommissionLedger
	stock        *StockLedger
	registers    *CashRegisterReconciler
	appointments *AppointmentCompletion
	sales        *SaleFinalization
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := newMemStore()
	scope := store.scope()
	publisher := &recordingPublisher{}

	transactions := NewTransactionLedger(scope, logger, nil)
	transactions.now = func() time.Time { return fixedNow }
	commissions := NewCommissionLedger(scope, logger, nil)
	stock := NewStockLedger(scope, transactions, publisher, logger, nil)
	registers := NewCashRegisterReconciler(scope, logger)
	registers.now = func() time.Time { return fixedNow }
	appointments := NewAppointmentCompletion(scope, commissions, transactions, logger)
	appointments.now = func() time.Time { return fixedNow }
	sales := NewSaleFinalization(scope, stock, commissions, transactions, logger)
	sales.now = func() time.Time { return fixedNow }

	return &fixture{
		store:        store,
		tenantID:     uuid.New(),
		actorID:      uuid.New(),
		publisher:    publisher,
		transactions: transactions,
		commissions:  commissions,
		stock:        stock,
		registers:    registers,
		appointments: appointments,
		sales:        sales,
	}
}

func (f *fixture) addProduct(t *testing.T, stock, threshold, cost string) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct(f.tenantID, "Pomade", "POM-1", d(cost), d("35.00"))
	require.NoError(t, err)
	p.StockQuantity = d(stock)
	require.NoError(t, p.SetMinStockThreshold(d(threshold)))
	f.store.products[p.ID] = *p
	return p
}

func (f *fixture) addDefaultMethod(t *testing.T) *finance.PaymentMethod {
	t.Helper()
	m, err := finance.NewPaymentMethod(f.tenantID, "Cash", finance.PaymentKindCash)
	require.NoError(t, err)
	m.MarkDefault()
	f.store.methods = append(f.store.methods, *m)
	return m
}

func (f *fixture) addRule(t *testing.T, tenantID uuid.UUID, professionalID, serviceID *uuid.UUID, pct string, priority int) *commission.CommissionRule {
	t.Helper()
	r, err := commission.NewCommissionRule(tenantID, professionalID, serviceID, d(pct), priority)
	require.NoError(t, err)
	f.store.rules = append(f.store.rules, *r)
	return r
}

func (f *fixture) addAppointment(t *testing.T, professionalID, serviceID uuid.UUID, price string) *scheduling.Appointment {
	t.Helper()
	a, err := scheduling.NewAppointment(f.tenantID, uuid.New(), professionalID, serviceID, fixedNow.Add(-time.Hour), d(price))
	require.NoError(t, err)
	f.store.appointments[a.ID] = *a
	return a
}

func (f *fixture) openRegister(t *testing.T, opening string) *pos.CashRegister {
	t.Helper()
	reg, err := f.registers.OpenRegister(context.Background(), f.tenantID, uuid.New(), d(opening))
	require.NoError(t, err)
	return reg
}

func (f *fixture) saveSale(sale *pos.Sale) {
	f.store.sales[sale.ID] = *sale
}
