package inventory

import (
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest represents a manual or upstream stock change
type RecordMovementRequest struct {
	ProductID  uuid.UUID        `json:"product_id" binding:"required"`
	Direction  string           `json:"direction" binding:"required,oneof=IN OUT"`
	Reason     string           `json:"reason" binding:"required,oneof=PURCHASE SALE ADJUSTMENT RETURN LOSS INTERNAL_USE INITIAL"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	SourceType string           `json:"source_type" binding:"max=50"`
	SourceID   *uuid.UUID       `json:"source_id"`
	Notes      string           `json:"notes" binding:"max=500"`
}

// MovementListFilter pages through a product's movement history
type MovementListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LowStockFilter pages through products at or below their alert threshold
type LowStockFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           uuid.UUID       `json:"product_id"`
	Direction           string          `json:"direction"`
	Reason              string          `json:"reason"`
	Quantity            decimal.Decimal `json:"quantity"`
	StockBefore         decimal.Decimal `json:"stock_before"`
	StockAfter          decimal.Decimal `json:"stock_after"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	SourceType          string          `json:"source_type,omitempty"`
	SourceID            *uuid.UUID      `json:"source_id,omitempty"`
	LinkedTransactionID *uuid.UUID      `json:"linked_transaction_id,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedBy           *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ProductStockResponse represents a product's stock position
type ProductStockResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku,omitempty"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	MinStockThreshold decimal.Decimal `json:"min_stock_threshold"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	Active            bool            `json:"active"`
	Version           int             `json:"version"`
}

// RecordMovementResponse reports the outcome of a movement request
type RecordMovementResponse struct {
	Outcome     string               `json:"outcome"`
	Reason      string               `json:"reason,omitempty"`
	Movement    *MovementResponse    `json:"movement,omitempty"`
	Product     ProductStockResponse `json:"product"`
	Transaction *uuid.UUID           `json:"transaction_id,omitempty"`
}

// ToMovementResponse converts a domain movement to a response
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                  m.ID,
		ProductID:           m.ProductID,
		Direction:           string(m.Direction),
		Reason:              string(m.Reason),
		Quantity:            m.Quantity,
		StockBefore:         m.StockBefore,
		StockAfter:          m.StockAfter,
		UnitCost:            m.UnitCost,
		SourceType:          m.SourceType,
		SourceID:            m.SourceID,
		LinkedTransactionID: m.LinkedTransactionID,
		Notes:               m.Notes,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToProductStockResponse converts a domain product to a response
func ToProductStockResponse(p *inventory.Product) ProductStockResponse {
	return ProductStockResponse{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		StockQuantity:     p.StockQuantity,
		MinStockThreshold: p.MinStockThreshold,
		CostPrice:         p.CostPrice,
		SalePrice:         p.SalePrice,
		Active:            p.Active,
		Version:           p.Version,
	}
}

// ToProductStockResponses converts a slice of products
func ToProductStockResponses(products []inventory.Product) []ProductStockResponse {
	responses := make([]ProductStockResponse, len(products))
	for i := range products {
		responses[i] = ToProductStockResponse(&products[i])
	}
	return responses
}

// ToRecordMovementResponse converts a ledger result to a response
func ToRecordMovementResponse(result *ledger.MovementResult) RecordMovementResponse {
	resp := RecordMovementResponse{
		Outcome: string(result.Outcome),
		Reason:  string(result.Reason),
	}
	if result.Movement != nil {
		m := ToMovementResponse(result.Movement)
		resp.Movement = &m
	}
	if result.Product != nil {
		resp.Product = ToProductStockResponse(result.Product)
	}
	if result.Purchase != nil && result.Purchase.Transaction != nil {
		id := result.Purchase.Transaction.ID
		resp.Transaction = &id
	}
	return resp
}
