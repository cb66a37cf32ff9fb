package models

import (
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	TenantAggregateModel
	Name              string          `gorm:"type:varchar(200);not null"`
	SKU               string          `gorm:"column:sku;type:varchar(64);index"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinStockThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Active            bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *inventory.Product {
	p := &inventory.Product{
		Name:              m.Name,
		SKU:               m.SKU,
		CostPrice:         m.CostPrice,
		SalePrice:         m.SalePrice,
		StockQuantity:     m.StockQuantity,
		MinStockThreshold: m.MinStockThreshold,
		Active:            m.Active,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *inventory.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.SKU = p.SKU
	m.CostPrice = p.CostPrice
	m.SalePrice = p.SalePrice
	m.StockQuantity = p.StockQuantity
	m.MinStockThreshold = p.MinStockThreshold
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *inventory.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// StockMovementModel is the persistence model for the append-only movement log.
// A sourced movement is unique per (tenant, source type, source id); unsourced
// rows carry a NULL source id and never collide.
type StockMovementModel struct {
	BaseModel
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_product,priority:1;uniqueIndex:idx_stock_movements_source,priority:1"`
	CreatedBy           *uuid.UUID      `gorm:"type:uuid"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_product,priority:2"`
	Direction           string          `gorm:"type:varchar(3);not null"`
	Reason              string          `gorm:"type:varchar(20);not null"`
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockBefore         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockAfter          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceType          string          `gorm:"type:varchar(30);uniqueIndex:idx_stock_movements_source,priority:2"`
	SourceID            *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_movements_source,priority:3"`
	LinkedTransactionID *uuid.UUID      `gorm:"type:uuid"`
	Notes               string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		TenantEntity: shared.TenantEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			TenantID:   m.TenantID,
			CreatedBy:  m.CreatedBy,
		},
		ProductID:           m.ProductID,
		Direction:           inventory.Direction(m.Direction),
		Reason:              inventory.Reason(m.Reason),
		Quantity:            m.Quantity,
		StockBefore:         m.StockBefore,
		StockAfter:          m.StockAfter,
		UnitCost:            m.UnitCost,
		SourceType:          m.SourceType,
		SourceID:            m.SourceID,
		LinkedTransactionID: m.LinkedTransactionID,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain StockMovement.
func (m *StockMovementModel) FromDomain(mv *inventory.StockMovement) {
	m.FromDomainBaseEntity(mv.BaseEntity)
	m.TenantID = mv.TenantID
	m.CreatedBy = mv.CreatedBy
	m.ProductID = mv.ProductID
	m.Direction = string(mv.Direction)
	m.Reason = string(mv.Reason)
	m.Quantity = mv.Quantity
	m.StockBefore = mv.StockBefore
	m.StockAfter = mv.StockAfter
	m.UnitCost = mv.UnitCost
	m.SourceType = mv.SourceType
	m.SourceID = mv.SourceID
	m.LinkedTransactionID = mv.LinkedTransactionID
	m.Notes = mv.Notes
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement.
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomain(mv)
	return m
}
