package commission

import (
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRuleRequest represents a request to create a commission rule.
// Leaving ProfessionalID or ServiceID empty widens the rule to any.
type CreateRuleRequest struct {
	ProfessionalID *uuid.UUID      `json:"professional_id"`
	ServiceID      *uuid.UUID      `json:"service_id"`
	Percentage     decimal.Decimal `json:"percentage"`
	Priority       int             `json:"priority"`
	Description    string          `json:"description" binding:"max=255"`
}

// UpdateRuleRequest represents a request to update a commission rule
type UpdateRuleRequest struct {
	Percentage  decimal.Decimal `json:"percentage"`
	Priority    int             `json:"priority"`
	Description string          `json:"description" binding:"max=255"`
}

// RuleListFilter represents filtering options for listing rules
type RuleListFilter struct {
	Active         *bool  `form:"active"`
	ProfessionalID string `form:"professional_id" binding:"omitempty,uuid"`
	ServiceID      string `form:"service_id" binding:"omitempty,uuid"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PreviewRequest asks which rule would pay a professional for a service
type PreviewRequest struct {
	ProfessionalID string `form:"professional_id" binding:"required,uuid"`
	ServiceID      string `form:"service_id" binding:"required,uuid"`
	BaseAmount     string `form:"base_amount"`
}

// CommissionListFilter represents filtering options for a professional's commissions
type CommissionListFilter struct {
	ProfessionalID string     `form:"professional_id" binding:"required,uuid"`
	From           *time.Time `form:"from" time_format:"2006-01-02"`
	To             *time.Time `form:"to" time_format:"2006-01-02"`
	Status         string     `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RuleResponse represents a commission rule in API responses
type RuleResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProfessionalID *uuid.UUID      `json:"professional_id"`
	ServiceID      *uuid.UUID      `json:"service_id"`
	Tier           string          `json:"tier"`
	Percentage     decimal.Decimal `json:"percentage"`
	Priority       int             `json:"priority"`
	Active         bool            `json:"active"`
	Description    string          `json:"description"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PreviewResponse reports the rule that would be applied without creating anything
type PreviewResponse struct {
	Matched    bool             `json:"matched"`
	Rule       *RuleResponse    `json:"rule,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Candidates []RuleResponse   `json:"candidates"`
}

// CommissionResponse represents a commission in API responses
type CommissionResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProfessionalID uuid.UUID       `json:"professional_id"`
	SourceType     string          `json:"source_type"`
	SourceID       uuid.UUID       `json:"source_id"`
	AppointmentID  *uuid.UUID      `json:"appointment_id,omitempty"`
	SaleID         *uuid.UUID      `json:"sale_id,omitempty"`
	ServiceID      uuid.UUID       `json:"service_id"`
	RuleID         *uuid.UUID      `json:"rule_id,omitempty"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Percentage     decimal.Decimal `json:"percentage"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	EarnedDate     time.Time       `json:"earned_date"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
}

// ToRuleResponse converts a domain rule to a response
func ToRuleResponse(r *commission.CommissionRule) RuleResponse {
	return RuleResponse{
		ID:             r.ID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		Tier:           r.Tier().String(),
		Percentage:     r.Percentage,
		Priority:       r.Priority,
		Active:         r.Active,
		Description:    r.Description,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// ToRuleResponses converts a slice of rules
func ToRuleResponses(rules []commission.CommissionRule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses
}

// ToCommissionResponse converts a domain commission to a response
func ToCommissionResponse(c *commission.Commission) CommissionResponse {
	return CommissionResponse{
		ID:             c.ID,
		ProfessionalID: c.ProfessionalID,
		SourceType:     string(c.SourceType),
		SourceID:       c.SourceID,
		AppointmentID:  c.AppointmentID,
		SaleID:         c.SaleID,
		ServiceID:      c.ServiceID,
		RuleID:         c.RuleID,
		BaseAmount:     c.BaseAmount,
		Percentage:     c.Percentage,
		Amount:         c.Amount,
		Status:         string(c.Status),
		EarnedDate:     c.EarnedDate,
		PaidAt:         c.PaidAt,
		CancelledAt:    c.CancelledAt,
	}
}

// ToCommissionResponses converts a slice of commissions
func ToCommissionResponses(commissions []commission.Commission) []CommissionResponse {
	responses := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		responses[i] = ToCommissionResponse(&commissions[i])
	}
	return responses
}
