package inventory

import (
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether a movement adds to or removes from stock
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Reason classifies why stock moved
type Reason string

const (
	ReasonPurchase    Reason = "PURCHASE"
	ReasonSale        Reason = "SALE"
	ReasonAdjustment  Reason = "ADJUSTMENT"
	ReasonReturn      Reason = "RETURN"
	ReasonLoss        Reason = "LOSS"
	ReasonInternalUse Reason = "INTERNAL_USE"
	ReasonInitial     Reason = "INITIAL"
)

// IsValid returns true if the reason is valid
func (r Reason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonReturn,
		ReasonLoss, ReasonInternalUse, ReasonInitial:
		return true
	}
	return false
}

// AllowsDirection reports whether the reason can be used with d.
// Adjustments go either way; every other reason has a fixed direction.
func (r Reason) AllowsDirection(d Direction) bool {
	switch r {
	case ReasonPurchase, ReasonReturn, ReasonInitial:
		return d == DirectionIn
	case ReasonSale, ReasonLoss, ReasonInternalUse:
		return d == DirectionOut
	case ReasonAdjustment:
		return d.IsValid()
	}
	return false
}

// Source types used to key idempotent movements
const (
	SourceTypeSaleItem      = "SALE_ITEM"
	SourceTypePurchaseOrder = "PURCHASE_ORDER"
)

// StockMovement is an append-only record of a single stock change.
// StockAfter always equals StockBefore plus or minus Quantity.
type StockMovement struct {
	shared.TenantEntity
	ProductID           uuid.UUID
	Direction           Direction
	Reason              Reason
	Quantity            decimal.Decimal
	StockBefore         decimal.Decimal
	StockAfter          decimal.Decimal
	UnitCost            decimal.Decimal
	SourceType          string
	SourceID            *uuid.UUID
	LinkedTransactionID *uuid.UUID
	Notes               string
}

// HasSource reports whether the movement is keyed by an external source
func (m *StockMovement) HasSource() bool {
	return m.SourceType != "" && m.SourceID != nil
}

// TotalCost returns quantity * unit cost rounded to the minor unit
func (m *StockMovement) TotalCost() decimal.Decimal {
	return valueobject.RoundAmount(m.Quantity.Mul(m.UnitCost))
}

// IsPurchase reports whether the movement is an inbound purchase
func (m *StockMovement) IsPurchase() bool {
	return m.Reason == ReasonPurchase && m.Direction == DirectionIn
}

// LinkTransaction records the finance transaction derived from this movement.
// It may only be called before the movement is persisted.
func (m *StockMovement) LinkTransaction(transactionID uuid.UUID) {
	if transactionID == uuid.Nil {
		return
	}
	m.LinkedTransactionID = &transactionID
}
