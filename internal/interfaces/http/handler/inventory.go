package handler

import (
	inventoryapp "github.com/bizcore/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock movement and product stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// RecordMovement records a stock movement against a product.
// A replayed movement (same source) answers 200 with outcome SKIPPED.
//
// POST /stock/movements
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}

	var req inventoryapp.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.RecordMovement(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Movement == nil {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// GetProduct returns a product's stock position.
//
// GET /products/:id
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.inventoryService.GetProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListMovements lists the movement history of a product.
//
// GET /products/:id/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}

	var filter inventoryapp.MovementListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	h.SuccessWithMeta(c, movements, total, page, pageSize)
}

// ListLowStock lists active products at or below their minimum threshold.
//
// GET /products/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter inventoryapp.LowStockFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.inventoryService.ListLowStock(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	h.SuccessWithMeta(c, products, total, page, pageSize)
}
