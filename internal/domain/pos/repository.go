package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its lines
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// FindByIDForUpdate finds a sale with its lines and row-locks the sale
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// Save creates or updates a sale and its lines
	Save(ctx context.Context, sale *Sale) error

	// SumPaidByRegister totals the PAID sales attached to a register
	SumPaidByRegister(ctx context.Context, tenantID, registerID uuid.UUID) (decimal.Decimal, error)
}

// CashRegisterRepository defines the interface for cash register persistence
type CashRegisterRepository interface {
	// FindByID finds a register within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CashRegister, error)

	// FindByIDForUpdate finds a register and row-locks it
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*CashRegister, error)

	// FindOpenByOperator finds the operator's open register
	FindOpenByOperator(ctx context.Context, tenantID, operatorID uuid.UUID) (*CashRegister, error)

	// CreateIfNoneOpen inserts an open register unless the operator already
	// has one. It reports whether a row was inserted.
	CreateIfNoneOpen(ctx context.Context, register *CashRegister) (bool, error)

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, register *CashRegister) error
}
