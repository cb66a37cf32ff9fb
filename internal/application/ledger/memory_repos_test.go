package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore backs the repositories of the ledger tests. Records are stored by
// value so callers cannot mutate persisted state behind the ledger's back.
type memStore struct {
	products     map[uuid.UUID]inventory.Product
	movements    []inventory.StockMovement
	rules        []commission.CommissionRule
	commissions  []commission.Commission
	transactions []finance.Transaction
	methods      []finance.PaymentMethod
	sales        map[uuid.UUID]pos.Sale
	registers    map[uuid.UUID]pos.CashRegister
	appointments map[uuid.UUID]scheduling.Appointment

	// loseInsertRace makes the next CreateIfAbsent behave as if another
	// writer inserted the same key first
	loseInsertRace bool
}

func newMemStore() *memStore {
	return &memStore{
		products:     map[uuid.UUID]inventory.Product{},
		sales:        map[uuid.UUID]pos.Sale{},
		registers:    map[uuid.UUID]pos.CashRegister{},
		appointments: map[uuid.UUID]scheduling.Appointment{},
	}
}

func (s *memStore) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(RepositorySet{
		ProductRepo:        memProducts{s},
		StockMovementRepo:  memMovements{s},
		CommissionRuleRepo: memRules{s},
		CommissionRepo:     memCommissions{s},
		TransactionRepo:    memTransactions{s},
		PaymentMethodRepo:  memMethods{s},
		SaleRepo:           memSales{s},
		CashRegisterRepo:   memRegisters{s},
		AppointmentRepo:    memAppointments{s},
	})
}

type memProducts struct{ s *memStore }

func (r memProducts) FindByID(_ context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	return r.FindByID(ctx, tenantID, id)
}

func (r memProducts) FindBelowThreshold(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.Product, int64, error) {
	var out []inventory.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.Active && p.IsBelowThreshold() {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r memProducts) Save(_ context.Context, p *inventory.Product) error {
	stored := *p
	_ = stored.PullEvents()
	r.s.products[p.ID] = stored
	return nil
}

func (r memProducts) SaveWithLock(_ context.Context, p *inventory.Product) error {
	stored, ok := r.s.products[p.ID]
	if !ok || stored.Version != p.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	stored = *p
	_ = stored.PullEvents()
	r.s.products[p.ID] = stored
	return nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *inventory.StockMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memMovements) FindBySource(_ context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) (*inventory.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.SourceType == sourceType && m.SourceID != nil && *m.SourceID == sourceID {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memMovements) FindByProduct(_ context.Context, tenantID, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, int64, error) {
	var out []inventory.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

type memRules struct{ s *memStore }

func (r memRules) FindByID(_ context.Context, tenantID, id uuid.UUID) (*commission.CommissionRule, error) {
	for _, rule := range r.s.rules {
		if rule.ID == id && rule.TenantID == tenantID {
			return &rule, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindCandidates deliberately ignores the tenant so the ledger's own
// filtering is exercised.
func (r memRules) FindCandidates(_ context.Context, _, _, _ uuid.UUID) ([]commission.CommissionRule, error) {
	out := make([]commission.CommissionRule, len(r.s.rules))
	copy(out, r.s.rules)
	return out, nil
}

func (r memRules) FindAll(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]commission.CommissionRule, int64, error) {
	var out []commission.CommissionRule
	for _, rule := range r.s.rules {
		if rule.TenantID == tenantID {
			out = append(out, rule)
		}
	}
	return out, int64(len(out)), nil
}

func (r memRules) Save(_ context.Context, rule *commission.CommissionRule) error {
	for i := range r.s.rules {
		if r.s.rules[i].ID == rule.ID {
			r.s.rules[i] = *rule
			return nil
		}
	}
	r.s.rules = append(r.s.rules, *rule)
	return nil
}

type memCommissions struct{ s *memStore }

func (r memCommissions) FindByID(_ context.Context, tenantID, id uuid.UUID) (*commission.Commission, error) {
	for _, c := range r.s.commissions {
		if c.ID == id && c.TenantID == tenantID {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memCommissions) FindBySource(_ context.Context, tenantID uuid.UUID, sourceType commission.SourceType, sourceID, serviceID uuid.UUID) (*commission.Commission, error) {
	for _, c := range r.s.commissions {
		if c.TenantID == tenantID && c.SourceType == sourceType && c.SourceID == sourceID && c.ServiceID == serviceID {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memCommissions) CreateIfAbsent(ctx context.Context, c *commission.Commission) (bool, error) {
	if r.s.loseInsertRace {
		r.s.loseInsertRace = false
		winner := *c
		winner.ID = uuid.New()
		r.s.commissions = append(r.s.commissions, winner)
		return false, nil
	}
	if _, err := r.FindBySource(ctx, c.TenantID, c.SourceType, c.SourceID, c.ServiceID); err == nil {
		return false, nil
	}
	r.s.commissions = append(r.s.commissions, *c)
	return true, nil
}

func (r memCommissions) Save(_ context.Context, c *commission.Commission) error {
	for i := range r.s.commissions {
		if r.s.commissions[i].ID == c.ID {
			r.s.commissions[i] = *c
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r memCommissions) FindByProfessional(_ context.Context, tenantID, professionalID uuid.UUID, from, to time.Time, _ shared.Filter) ([]commission.Commission, int64, error) {
	var out []commission.Commission
	for _, c := range r.s.commissions {
		if c.TenantID == tenantID && c.ProfessionalID == professionalID && !c.EarnedDate.Before(from) && c.EarnedDate.Before(to) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type memTransactions struct{ s *memStore }

func (r memTransactions) FindBySource(_ context.Context, tenantID uuid.UUID, sourceType finance.SourceType, sourceID uuid.UUID) (*finance.Transaction, error) {
	for _, t := range r.s.transactions {
		if t.TenantID == tenantID && t.SourceType == sourceType && t.SourceID == sourceID {
			return &t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memTransactions) CreateIfAbsent(ctx context.Context, t *finance.Transaction) (bool, error) {
	if r.s.loseInsertRace {
		r.s.loseInsertRace = false
		winner := *t
		winner.ID = uuid.New()
		r.s.transactions = append(r.s.transactions, winner)
		return false, nil
	}
	if _, err := r.FindBySource(ctx, t.TenantID, t.SourceType, t.SourceID); err == nil {
		return false, nil
	}
	r.s.transactions = append(r.s.transactions, *t)
	return true, nil
}

func (r memTransactions) FindByDateRange(_ context.Context, tenantID uuid.UUID, from, to time.Time, _ shared.Filter) ([]finance.Transaction, int64, error) {
	var out []finance.Transaction
	for _, t := range r.s.transactions {
		if t.TenantID == tenantID && !t.Date.Before(from) && t.Date.Before(to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

type memMethods struct{ s *memStore }

func (r memMethods) FindByID(_ context.Context, tenantID, id uuid.UUID) (*finance.PaymentMethod, error) {
	for _, m := range r.s.methods {
		if m.ID == id && m.TenantID == tenantID {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memMethods) FindActiveDefault(_ context.Context, tenantID uuid.UUID) (*finance.PaymentMethod, error) {
	for _, m := range r.s.methods {
		if m.TenantID == tenantID && m.IsUsableDefault() {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memMethods) Save(_ context.Context, m *finance.PaymentMethod) error {
	r.s.methods = append(r.s.methods, *m)
	return nil
}

type memSales struct{ s *memStore }

func (r memSales) FindByID(_ context.Context, tenantID, id uuid.UUID) (*pos.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok || sale.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	sale.Items = append([]pos.SaleItem(nil), sale.Items...)
	return &sale, nil
}

func (r memSales) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.Sale, error) {
	return r.FindByID(ctx, tenantID, id)
}

func (r memSales) Save(_ context.Context, sale *pos.Sale) error {
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r memSales) SumPaidByRegister(_ context.Context, tenantID, registerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, sale := range r.s.sales {
		if sale.TenantID == tenantID && sale.IsPaid() && sale.CashRegisterID != nil && *sale.CashRegisterID == registerID {
			sum = sum.Add(sale.Total)
		}
	}
	return sum, nil
}

type memRegisters struct{ s *memStore }

func (r memRegisters) FindByID(_ context.Context, tenantID, id uuid.UUID) (*pos.CashRegister, error) {
	reg, ok := r.s.registers[id]
	if !ok || reg.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &reg, nil
}

func (r memRegisters) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.CashRegister, error) {
	return r.FindByID(ctx, tenantID, id)
}

func (r memRegisters) FindOpenByOperator(_ context.Context, tenantID, operatorID uuid.UUID) (*pos.CashRegister, error) {
	for _, reg := range r.s.registers {
		if reg.TenantID == tenantID && reg.OperatorID == operatorID && reg.IsOpen() {
			return &reg, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memRegisters) CreateIfNoneOpen(ctx context.Context, reg *pos.CashRegister) (bool, error) {
	if _, err := r.FindOpenByOperator(ctx, reg.TenantID, reg.OperatorID); err == nil {
		return false, nil
	}
	r.s.registers[reg.ID] = *reg
	return true, nil
}

func (r memRegisters) SaveWithLock(_ context.Context, reg *pos.CashRegister) error {
	stored, ok := r.s.registers[reg.ID]
	if !ok || stored.Version != reg.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.s.registers[reg.ID] = *reg
	return nil
}

type memAppointments struct{ s *memStore }

func (r memAppointments) FindByID(_ context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	a, ok := r.s.appointments[id]
	if !ok || a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (r memAppointments) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	return r.FindByID(ctx, tenantID, id)
}

func (r memAppointments) Save(_ context.Context, a *scheduling.Appointment) error {
	r.s.appointments[a.ID] = *a
	return nil
}
