package persistence

import (
	"context"
	"errors"

	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements pos.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pos.Sale, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a sale with its lines and locks the sale row
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.Sale, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormSaleRepository) find(db *gorm.DB, tenantID, id uuid.UUID) (*pos.Sale, error) {
	var model models.SaleModel
	if err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the sale, then syncs its lines: removed lines are
// deleted and the rest are upserted.
func (r *GormSaleRepository) Save(ctx context.Context, sale *pos.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(model.Items))
		for i := range model.Items {
			itemIDs[i] = model.Items[i].ID
		}
		stale := tx.Where("sale_id = ?", model.ID)
		if len(itemIDs) > 0 {
			stale = stale.Where("id NOT IN ?", itemIDs)
		}
		if err := stale.Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SumPaidByRegister totals the PAID sales attached to a register
func (r *GormSaleRepository) SumPaidByRegister(ctx context.Context, tenantID, registerID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("SUM(total)").
		Where("tenant_id = ? AND cash_register_id = ? AND payment_status = ?",
			tenantID, registerID, string(pos.PaymentStatusPaid)).
		Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ pos.SaleRepository = (*GormSaleRepository)(nil)
