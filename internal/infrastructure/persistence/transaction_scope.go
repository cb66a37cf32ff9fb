package persistence

import (
	"context"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"gorm.io/gorm"
)

// GormTransactionScope implements ledger.TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockMovements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) CommissionRules() commission.RuleRepository {
	return NewGormCommissionRuleRepository(r.tx)
}

func (r *gormTransactionalRepositories) Commissions() commission.CommissionRepository {
	return NewGormCommissionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Transactions() finance.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentMethods() finance.PaymentMethodRepository {
	return NewGormPaymentMethodRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sales() pos.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) CashRegisters() pos.CashRegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

func (r *gormTransactionalRepositories) Appointments() scheduling.AppointmentRepository {
	return NewGormAppointmentRepository(r.tx)
}

// NewRepositorySet builds non-transactional repositories over db, for reads
// and single-statement writes outside a unit of work.
func NewRepositorySet(db *gorm.DB) ledger.RepositorySet {
	return ledger.RepositorySet{
		ProductRepo:        NewGormProductRepository(db),
		StockMovementRepo:  NewGormStockMovementRepository(db),
		CommissionRuleRepo: NewGormCommissionRuleRepository(db),
		CommissionRepo:     NewGormCommissionRepository(db),
		TransactionRepo:    NewGormTransactionRepository(db),
		PaymentMethodRepo:  NewGormPaymentMethodRepository(db),
		SaleRepo:           NewGormSaleRepository(db),
		CashRegisterRepo:   NewGormCashRegisterRepository(db),
		AppointmentRepo:    NewGormAppointmentRepository(db),
	}
}

// Ensure GormTransactionScope implements TransactionScope
var _ ledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements Repositories
var _ ledger.Repositories = (*gormTransactionalRepositories)(nil)
