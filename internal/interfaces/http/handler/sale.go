package handler

import (
	posapp "github.com/bizcore/backend/internal/application/pos"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles point of sale and cash register endpoints
type SaleHandler struct {
	BaseHandler
	saleService *posapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *posapp.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// CreateSale opens a pending sale.
//
// POST /sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}

	var req posapp.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetSale returns a sale with its lines.
//
// GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// PaySale takes payment for a pending sale and derives its stock movements,
// commissions and income transaction. Paying twice answers with
// already_paid and derives nothing new.
//
// POST /sales/:id/pay
func (h *SaleHandler) PaySale(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}

	var req posapp.PaySaleRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	result, err := h.saleService.PaySale(c.Request.Context(), tenantID, actorID, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelSale cancels a pending sale.
//
// POST /sales/:id/cancel
func (h *SaleHandler) CancelSale(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// OpenRegister opens a cash register for the acting operator.
//
// POST /cash-registers
func (h *SaleHandler) OpenRegister(c *gin.Context) {
	tenantID, operatorID, ok := h.identity(c)
	if !ok {
		return
	}

	var req posapp.OpenRegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	register, err := h.saleService.OpenRegister(c.Request.Context(), tenantID, operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// CloseRegister closes a register with the counted balance and reports the
// difference against the expected balance.
//
// POST /cash-registers/:id/close
func (h *SaleHandler) CloseRegister(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	registerID, ok := h.pathID(c, "id", "cash register")
	if !ok {
		return
	}

	var req posapp.CloseRegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	register, err := h.saleService.CloseRegister(c.Request.Context(), tenantID, registerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// GetRegister returns a cash register.
//
// GET /cash-registers/:id
func (h *SaleHandler) GetRegister(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	registerID, ok := h.pathID(c, "id", "cash register")
	if !ok {
		return
	}

	register, err := h.saleService.GetRegister(c.Request.Context(), tenantID, registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}
