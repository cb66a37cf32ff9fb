package ledger

import (
	"context"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/scheduling"
)

// TransactionScope runs a unit of work. All repositories handed to fn share one
// database transaction, committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides the repositories of a unit of work.
type Repositories interface {
	Products() inventory.ProductRepository
	StockMovements() inventory.StockMovementRepository
	CommissionRules() commission.RuleRepository
	Commissions() commission.CommissionRepository
	Transactions() finance.TransactionRepository
	PaymentMethods() finance.PaymentMethodRepository
	Sales() pos.SaleRepository
	CashRegisters() pos.CashRegisterRepository
	Appointments() scheduling.AppointmentRepository
}

// RepositorySet is a plain Repositories implementation
type RepositorySet struct {
	ProductRepo        inventory.ProductRepository
	StockMovementRepo  inventory.StockMovementRepository
	CommissionRuleRepo commission.RuleRepository
	CommissionRepo     commission.CommissionRepository
	TransactionRepo    finance.TransactionRepository
	PaymentMethodRepo  finance.PaymentMethodRepository
	SaleRepo           pos.SaleRepository
	CashRegisterRepo   pos.CashRegisterRepository
	AppointmentRepo    scheduling.AppointmentRepository
}

func (s RepositorySet) Products() inventory.ProductRepository             { return s.ProductRepo }
func (s RepositorySet) StockMovements() inventory.StockMovementRepository { return s.StockMovementRepo }
func (s RepositorySet) CommissionRules() commission.RuleRepository        { return s.CommissionRuleRepo }
func (s RepositorySet) Commissions() commission.CommissionRepository      { return s.CommissionRepo }
func (s RepositorySet) Transactions() finance.TransactionRepository       { return s.TransactionRepo }
func (s RepositorySet) PaymentMethods() finance.PaymentMethodRepository   { return s.PaymentMethodRepo }
func (s RepositorySet) Sales() pos.SaleRepository                         { return s.SaleRepo }
func (s RepositorySet) CashRegisters() pos.CashRegisterRepository         { return s.CashRegisterRepo }
func (s RepositorySet) Appointments() scheduling.AppointmentRepository    { return s.AppointmentRepo }

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	repos RepositorySet
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over repos.
func NewNoOpTransactionScope(repos RepositorySet) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}

var (
	_ TransactionScope = (*NoOpTransactionScope)(nil)
	_ Repositories     = RepositorySet{}
)
