package handler

import (
	financeapp "github.com/bizcore/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceHandler handles ledger transaction and payment method endpoints
type FinanceHandler struct {
	BaseHandler
	transactionService *financeapp.TransactionService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(transactionService *financeapp.TransactionService) *FinanceHandler {
	return &FinanceHandler{
		transactionService: transactionService,
	}
}

// TransactionListResponse carries a page of transactions and the totals of
// the whole filtered range
type TransactionListResponse struct {
	Items   []financeapp.TransactionResponse `json:"items"`
	Summary *financeapp.TransactionSummary   `json:"summary"`
}

// ListTransactions lists ledger transactions with income/expense totals.
//
// GET /transactions
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter financeapp.TransactionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, summary, err := h.transactionService.ListTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	h.SuccessWithMeta(c, TransactionListResponse{Items: items, Summary: summary}, total, page, pageSize)
}

// GetBySource returns the transaction derived from a source.
//
// GET /transactions/by-source/:source_type/:source_id
func (h *FinanceHandler) GetBySource(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	sourceID, ok := h.pathID(c, "source_id", "source")
	if !ok {
		return
	}

	txn, err := h.transactionService.GetBySource(c.Request.Context(), tenantID, c.Param("source_type"), sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// CreatePaymentMethod registers a payment method; is_default moves the
// tenant's default to it.
//
// POST /payment-methods
func (h *FinanceHandler) CreatePaymentMethod(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}

	var req financeapp.CreatePaymentMethodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	method, err := h.transactionService.CreatePaymentMethod(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, method)
}

// DeactivatePaymentMethod disables a payment method.
//
// POST /payment-methods/:id/deactivate
func (h *FinanceHandler) DeactivatePaymentMethod(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	methodID, ok := h.pathID(c, "id", "payment method")
	if !ok {
		return
	}

	method, err := h.transactionService.DeactivatePaymentMethod(c.Request.Context(), tenantID, methodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, method)
}
