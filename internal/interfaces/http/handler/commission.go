package handler

import (
	commissionapp "github.com/bizcore/backend/internal/application/commission"
	"github.com/gin-gonic/gin"
)

// CommissionHandler handles commission rule and payout endpoints
type CommissionHandler struct {
	BaseHandler
	ruleService   *commissionapp.RuleService
	payoutService *commissionapp.PayoutService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(ruleService *commissionapp.RuleService, payoutService *commissionapp.PayoutService) *CommissionHandler {
	return &CommissionHandler{
		ruleService:   ruleService,
		payoutService: payoutService,
	}
}

// CreateRule creates a commission rule.
//
// POST /commission-rules
func (h *CommissionHandler) CreateRule(c *gin.Context) {
	tenantID, actorID, ok := h.identity(c)
	if !ok {
		return
	}

	var req commissionapp.CreateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// GetRule returns a commission rule.
//
// GET /commission-rules/:id
func (h *CommissionHandler) GetRule(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id", "rule")
	if !ok {
		return
	}

	rule, err := h.ruleService.GetRule(c.Request.Context(), tenantID, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// ListRules lists commission rules.
//
// GET /commission-rules
func (h *CommissionHandler) ListRules(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter commissionapp.RuleListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	rules, total, err := h.ruleService.ListRules(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	h.SuccessWithMeta(c, rules, total, page, pageSize)
}

// UpdateRule changes percentage, priority and description of a rule.
//
// PUT /commission-rules/:id
func (h *CommissionHandler) UpdateRule(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id", "rule")
	if !ok {
		return
	}

	var req commissionapp.UpdateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), tenantID, ruleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// ActivateRule re-enables a rule.
//
// POST /commission-rules/:id/activate
func (h *CommissionHandler) ActivateRule(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id", "rule")
	if !ok {
		return
	}

	rule, err := h.ruleService.ActivateRule(c.Request.Context(), tenantID, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// DeactivateRule disables a rule. Existing commissions are not touched.
//
// POST /commission-rules/:id/deactivate
func (h *CommissionHandler) DeactivateRule(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathID(c, "id", "rule")
	if !ok {
		return
	}

	rule, err := h.ruleService.DeactivateRule(c.Request.Context(), tenantID, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// PreviewRule shows which rule would pay a professional for a service.
//
// GET /commission-rules/preview
func (h *CommissionHandler) PreviewRule(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req commissionapp.PreviewRequest
	if !h.BindQuery(c, &req) {
		return
	}

	preview, err := h.ruleService.PreviewRule(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// ListCommissions lists a professional's commissions.
//
// GET /commissions
func (h *CommissionHandler) ListCommissions(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter commissionapp.CommissionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	commissions, total, err := h.payoutService.ListByProfessional(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	h.SuccessWithMeta(c, commissions, total, page, pageSize)
}

// PayCommission marks a pending commission as paid.
//
// POST /commissions/:id/pay
func (h *CommissionHandler) PayCommission(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	commissionID, ok := h.pathID(c, "id", "commission")
	if !ok {
		return
	}

	result, err := h.payoutService.MarkPaid(c.Request.Context(), tenantID, commissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelCommission cancels a pending commission.
//
// POST /commissions/:id/cancel
func (h *CommissionHandler) CancelCommission(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	commissionID, ok := h.pathID(c, "id", "commission")
	if !ok {
		return
	}

	result, err := h.payoutService.Cancel(c.Request.Context(), tenantID, commissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
