package persistence

import (
	"context"
	"errors"

	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements inventory.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID within a tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a product with SELECT ... FOR UPDATE. The lock is
// only held when the repository runs inside a transaction.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormProductRepository) find(db *gorm.DB, tenantID, id uuid.UUID) (*inventory.Product, error) {
	var model models.ProductModel
	if err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBelowThreshold lists active products whose stock is at or below a
// positive alert threshold
func (r *GormProductRepository) FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND active = ? AND min_stock_threshold > 0 AND stock_quantity <= min_stock_threshold", tenantID, true).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := productSort.paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	products := make([]inventory.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// SaveWithLock saves with optimistic locking (checks version).
// The caller increments the version before saving; the row must still hold
// the previous one.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *inventory.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", product.ID, product.TenantID, product.Version-1).
		Updates(map[string]interface{}{
			"name":                product.Name,
			"sku":                 product.SKU,
			"cost_price":          product.CostPrice,
			"sale_price":          product.SalePrice,
			"stock_quantity":      product.StockQuantity,
			"min_stock_threshold": product.MinStockThreshold,
			"active":              product.Active,
			"version":             product.Version,
			"updated_at":          product.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Product %s was modified by another transaction", product.ID)
	}
	return nil
}

// Ensure GormProductRepository implements inventory.ProductRepository
var _ inventory.ProductRepository = (*GormProductRepository)(nil)
