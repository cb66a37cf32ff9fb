package finance

import (
	"context"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// FindBySource finds the transaction derived from a source event
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType SourceType, sourceID uuid.UUID) (*Transaction, error)

	// CreateIfAbsent inserts the transaction unless one already exists for its
	// source. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, transaction *Transaction) (bool, error)

	// FindByDateRange lists transactions dated in [from, to), newest first
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Transaction, int64, error)
}

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	// FindByID finds a payment method within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentMethod, error)

	// FindActiveDefault finds the tenant's active default method
	FindActiveDefault(ctx context.Context, tenantID uuid.UUID) (*PaymentMethod, error)

	// Save creates or updates a payment method
	Save(ctx context.Context, method *PaymentMethod) error
}
