package inventory

import (
	"context"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and holds a row lock on it until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBelowThreshold lists active products at or below their alert threshold
	FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, product *Product) error
}

// StockMovementRepository defines the interface for the append-only movement log
type StockMovementRepository interface {
	// Create appends a movement
	Create(ctx context.Context, movement *StockMovement) error

	// FindBySource finds the movement recorded for a source reference
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) (*StockMovement, error)

	// FindByProduct lists a product's movements, newest first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)
}
