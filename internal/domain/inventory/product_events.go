package inventory

import (
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeOutOfStock          = "OutOfStock"
)

// StockBelowThresholdEvent is raised when a withdrawal takes the balance from
// above the product threshold to at or below it
type StockBelowThresholdEvent struct {
	shared.EventHeader
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku,omitempty"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(p *Product, previous decimal.Decimal) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		EventHeader: shared.NewEventHeader(EventTypeStockBelowThreshold, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		ProductName:     p.Name,
		SKU:             p.SKU,
		PreviousStock:   previous,
		CurrentStock:    p.StockQuantity,
		MinimumStock:    p.MinStockThreshold,
	}
}

// OutOfStockEvent is raised when a withdrawal empties the product
type OutOfStockEvent struct {
	shared.EventHeader
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku,omitempty"`
	MovementID  uuid.UUID `json:"movement_id"`
}

// NewOutOfStockEvent creates a new OutOfStockEvent
func NewOutOfStockEvent(p *Product, movementID uuid.UUID) *OutOfStockEvent {
	return &OutOfStockEvent{
		EventHeader: shared.NewEventHeader(EventTypeOutOfStock, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		ProductName:     p.Name,
		SKU:             p.SKU,
		MovementID:      movementID,
	}
}
