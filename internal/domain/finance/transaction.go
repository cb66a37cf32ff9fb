package finance

import (
	"strings"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of money
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Category classifies a transaction for reporting
type Category string

const (
	CategoryServiceRevenue  Category = "SERVICE_REVENUE"
	CategoryProductSale     Category = "PRODUCT_SALE"
	CategorySupplierExpense Category = "SUPPLIER_EXPENSE"
)

// IsValid checks if the category is a valid Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryServiceRevenue, CategoryProductSale, CategorySupplierExpense:
		return true
	}
	return false
}

// TypeFor returns the transaction type implied by the category
func (c Category) TypeFor() TransactionType {
	if c == CategorySupplierExpense {
		return TransactionTypeExpense
	}
	return TransactionTypeIncome
}

// SourceType identifies the business event a transaction was derived from
type SourceType string

const (
	SourceAppointment   SourceType = "APPOINTMENT"
	SourceSale          SourceType = "SALE"
	SourceStockMovement SourceType = "STOCK_MOVEMENT"
)

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceAppointment, SourceSale, SourceStockMovement:
		return true
	}
	return false
}

// Transaction is an accounting entry derived from exactly one business event.
// At most one exists per (tenant, source type, source id) and its amount is
// never changed after creation.
type Transaction struct {
	shared.TenantEntity
	Type            TransactionType
	Category        Category
	Amount          decimal.Decimal
	Date            time.Time
	PaymentMethodID *uuid.UUID
	Description     string
	SourceType      SourceType
	SourceID        uuid.UUID
}

// NewTransactionParams holds the values of a new transaction
type NewTransactionParams struct {
	TenantID        uuid.UUID
	ActorID         uuid.UUID
	Category        Category
	Amount          decimal.Decimal
	Date            time.Time
	PaymentMethodID *uuid.UUID
	Description     string
	SourceType      SourceType
	SourceID        uuid.UUID
}

// NewTransaction creates a transaction; the type follows from the category
func NewTransaction(p NewTransactionParams) (*Transaction, error) {
	if p.TenantID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Tenant ID cannot be empty")
	}
	if !p.Category.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid transaction category %q", p.Category)
	}
	if !p.SourceType.IsValid() || p.SourceID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Transaction source is required")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.ErrInvalidAmount.WithMessage("Transaction amount must be positive")
	}

	t := &Transaction{
		TenantEntity:    shared.NewTenantEntity(p.TenantID),
		Type:            p.Category.TypeFor(),
		Category:        p.Category,
		Amount:          p.Amount,
		Date:            p.Date,
		PaymentMethodID: p.PaymentMethodID,
		Description:     strings.TrimSpace(p.Description),
		SourceType:      p.SourceType,
		SourceID:        p.SourceID,
	}
	if t.Date.IsZero() {
		t.Date = t.CreatedAt
	}
	t.SetCreatedBy(p.ActorID)
	return t, nil
}

// SignedAmount returns the amount as positive for income and negative for expense
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
