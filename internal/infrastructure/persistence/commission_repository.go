package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommissionRuleRepository implements commission.RuleRepository using GORM
type GormCommissionRuleRepository struct {
	db *gorm.DB
}

// NewGormCommissionRuleRepository creates a new GormCommissionRuleRepository
func NewGormCommissionRuleRepository(db *gorm.DB) *GormCommissionRuleRepository {
	return &GormCommissionRuleRepository{db: db}
}

// FindByID finds a rule by ID within a tenant
func (r *GormCommissionRuleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionRule, error) {
	var model models.CommissionRuleModel
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

// FindCandidates returns the tenant's active rules whose professional and
// service slots are either empty or equal to the given ids
func (r *GormCommissionRuleRepository) FindCandidates(ctx context.Context, tenantID, professionalID, serviceID uuid.UUID) ([]commission.CommissionRule, error) {
	var rows []models.CommissionRuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Where("professional_id IS NULL OR professional_id = ?", professionalID).
		Where("service_id IS NULL OR service_id = ?", serviceID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rules := make([]commission.CommissionRule, len(rows))
	for i := range rows {
		rules[i] = *rows[i].ToDomain()
	}
	return rules, nil
}

// FindAll lists the tenant's rules. Supported filters: active (bool),
// professional_id and service_id (uuid.UUID).
func (r *GormCommissionRuleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commission.CommissionRule, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionRuleModel{}).
		Where("tenant_id = ?", tenantID)
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	if professionalID, ok := filter.Filters["professional_id"].(uuid.UUID); ok {
		query = query.Where("professional_id = ?", professionalID)
	}
	if serviceID, ok := filter.Filters["service_id"].(uuid.UUID); ok {
		query = query.Where("service_id = ?", serviceID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CommissionRuleModel
	if err := commissionRuleSort.paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	rules := make([]commission.CommissionRule, len(rows))
	for i := range rows {
		rules[i] = *rows[i].ToDomain()
	}
	return rules, total, nil
}

// Save creates or updates a rule
func (r *GormCommissionRuleRepository) Save(ctx context.Context, rule *commission.CommissionRule) error {
	return r.db.WithContext(ctx).Save(models.CommissionRuleModelFromDomain(rule)).Error
}

// GormCommissionRepository implements commission.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission by ID within a tenant
func (r *GormCommissionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
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

// FindBySource finds the commission stored under an idempotency key
func (r *GormCommissionRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType commission.SourceType, sourceID, serviceID uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ? AND service_id = ?",
			tenantID, string(sourceType), sourceID, serviceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateIfAbsent inserts with ON CONFLICT DO NOTHING on the idempotency key.
// A concurrent writer that lost the race sees false and no error.
func (r *GormCommissionRepository) CreateIfAbsent(ctx context.Context, c *commission.Commission) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "source_type"}, {Name: "source_id"}, {Name: "service_id"},
			},
			DoNothing: true,
		}).
		Create(models.CommissionModelFromDomain(c))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Save updates the status fields of a commission. The amounts are immutable.
func (r *GormCommissionRepository) Save(ctx context.Context, c *commission.Commission) error {
	result := r.db.WithContext(ctx).
		Model(&models.CommissionModel{}).
		Where("id = ? AND tenant_id = ?", c.ID, c.TenantID).
		Updates(map[string]interface{}{
			"status":       string(c.Status),
			"paid_at":      c.PaidAt,
			"cancelled_at": c.CancelledAt,
			"updated_at":   c.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByProfessional lists commissions earned in [from, to). A zero bound is
// open. Supported filters: status (commission.Status).
func (r *GormCommissionRepository) FindByProfessional(ctx context.Context, tenantID, professionalID uuid.UUID, from, to time.Time, filter shared.Filter) ([]commission.Commission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("tenant_id = ? AND professional_id = ?", tenantID, professionalID)
	if !from.IsZero() {
		query = query.Where("earned_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("earned_date < ?", to)
	}
	if status, ok := filter.Filters["status"].(commission.Status); ok {
		query = query.Where("status = ?", string(status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CommissionModel
	if err := commissionSort.paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	commissions := make([]commission.Commission, len(rows))
	for i := range rows {
		commissions[i] = *rows[i].ToDomain()
	}
	return commissions, total, nil
}

// Ensure the GORM repositories implement the commission interfaces
var (
	_ commission.RuleRepository       = (*GormCommissionRuleRepository)(nil)
	_ commission.CommissionRepository = (*GormCommissionRepository)(nil)
)
