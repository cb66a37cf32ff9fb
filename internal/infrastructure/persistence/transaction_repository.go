package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindBySource finds the transaction derived from a source event
func (r *GormTransactionRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType finance.SourceType, sourceID uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, string(sourceType), sourceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateIfAbsent inserts with ON CONFLICT DO NOTHING on (tenant, source type, source id)
func (r *GormTransactionRepository) CreateIfAbsent(ctx context.Context, t *finance.Transaction) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "source_type"}, {Name: "source_id"}},
			DoNothing: true,
		}).
		Create(models.TransactionModelFromDomain(t))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByDateRange lists transactions dated in [from, to), newest first by
// default. Supported filters: type (finance.TransactionType), category
// (finance.Category) and source_type (finance.SourceType).
func (r *GormTransactionRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]finance.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("tenant_id = ?", tenantID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date < ?", to)
	}
	if txType, ok := filter.Filters["type"].(finance.TransactionType); ok {
		query = query.Where("type = ?", string(txType))
	}
	if category, ok := filter.Filters["category"].(finance.Category); ok {
		query = query.Where("category = ?", string(category))
	}
	if sourceType, ok := filter.Filters["source_type"].(finance.SourceType); ok {
		query = query.Where("source_type = ?", string(sourceType))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TransactionModel
	if err := transactionSort.paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]finance.Transaction, len(rows))
	for i := range rows {
		transactions[i] = *rows[i].ToDomain()
	}
	return transactions, total, nil
}

// GormPaymentMethodRepository implements finance.PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindByID finds a payment method by ID within a tenant
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveDefault finds the tenant's active default method. If several are
// flagged the oldest wins.
func (r *GormPaymentMethodRepository) FindActiveDefault(ctx context.Context, tenantID uuid.UUID) (*finance.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_default = ? AND active = ?", tenantID, true, true).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, method *finance.PaymentMethod) error {
	return r.db.WithContext(ctx).Save(models.PaymentMethodModelFromDomain(method)).Error
}

// Ensure the GORM repositories implement the finance interfaces
var (
	_ finance.TransactionRepository   = (*GormTransactionRepository)(nil)
	_ finance.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
)
