package persistence

import (
	"context"
	"errors"

	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openRegisterPredicate matches the partial unique index on cash_registers.
// It is inlined, not bound, so Postgres can infer the index for ON CONFLICT.
const openRegisterPredicate = "status = 'OPEN'"

// GormCashRegisterRepository implements pos.CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByID finds a register by ID within a tenant
func (r *GormCashRegisterRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pos.CashRegister, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByIDForUpdate finds a register and locks its row
func (r *GormCashRegisterRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.CashRegister, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindOpenByOperator finds the operator's open register
func (r *GormCashRegisterRepository) FindOpenByOperator(ctx context.Context, tenantID, operatorID uuid.UUID) (*pos.CashRegister, error) {
	return r.first(r.db.WithContext(ctx).
		Where("tenant_id = ? AND operator_id = ?", tenantID, operatorID).
		Where(openRegisterPredicate))
}

func (r *GormCashRegisterRepository) first(query *gorm.DB) (*pos.CashRegister, error) {
	var model models.CashRegisterModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateIfNoneOpen inserts the register unless the operator already has an
// open one. The partial unique index decides races; the loser gets false.
func (r *GormCashRegisterRepository) CreateIfNoneOpen(ctx context.Context, register *pos.CashRegister) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "tenant_id"}, {Name: "operator_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: openRegisterPredicate}}},
			DoNothing:   true,
		}).
		Create(models.CashRegisterModelFromDomain(register))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCashRegisterRepository) SaveWithLock(ctx context.Context, register *pos.CashRegister) error {
	result := r.db.WithContext(ctx).
		Model(&models.CashRegisterModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", register.ID, register.TenantID, register.Version-1).
		Updates(map[string]interface{}{
			"closed_at":        register.ClosedAt,
			"closing_balance":  register.ClosingBalance,
			"expected_balance": register.ExpectedBalance,
			"difference":       register.Difference,
			"status":           string(register.Status),
			"notes":            register.Notes,
			"version":          register.Version,
			"updated_at":       register.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Cash register %s was modified by another transaction", register.ID)
	}
	return nil
}

// Ensure GormCashRegisterRepository implements CashRegisterRepository
var _ pos.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
