package models

import (
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel is the row identity and timestamps of every table.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// AggregateModel adds the optimistic-lock version that SaveWithLock checks.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// TenantAggregateModel is the row of a tenant-owned aggregate.
type TenantAggregateModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Version, m.TenantID, m.CreatedBy = t.Version, t.TenantID, t.CreatedBy
}

// PopulateTenantAggregateRoot copies the row's identity into t. Pending
// events are left untouched.
func (m *TenantAggregateModel) PopulateTenantAggregateRoot(t *shared.TenantAggregateRoot) {
	t.BaseEntity = m.BaseModel.ToDomain()
	t.Version, t.TenantID, t.CreatedBy = m.Version, m.TenantID, m.CreatedBy
}

// AllModels lists every model owned by this package, in dependency order,
// for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&ProductModel{},
		&StockMovementModel{},
		&CommissionRuleModel{},
		&CommissionModel{},
		&PaymentMethodModel{},
		&TransactionModel{},
		&CashRegisterModel{},
		&SaleModel{},
		&SaleItemModel{},
		&AppointmentModel{},
	}
}
