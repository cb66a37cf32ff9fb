package pos

import (
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one line of a new sale; exactly one of ProductID and
// ServiceID must be set
type SaleLineRequest struct {
	ProductID      *uuid.UUID      `json:"product_id"`
	ServiceID      *uuid.UUID      `json:"service_id"`
	ProfessionalID *uuid.UUID      `json:"professional_id"`
	Description    string          `json:"description" binding:"max=255"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest represents a request to open a pending sale
type CreateSaleRequest struct {
	CustomerID   *uuid.UUID        `json:"customer_id"`
	CustomerName string            `json:"customer_name" binding:"max=200"`
	Discount     *decimal.Decimal  `json:"discount"`
	Items        []SaleLineRequest `json:"items" binding:"required,min=1,dive"`
}

// PaySaleRequest represents a request to take payment for a sale
type PaySaleRequest struct {
	CashRegisterID  *uuid.UUID `json:"cash_register_id"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id"`
}

// OpenRegisterRequest represents a request to open a cash register
type OpenRegisterRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CloseRegisterRequest represents a request to close a cash register
type CloseRegisterRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Notes          string          `json:"notes" binding:"max=500"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	ServiceID      *uuid.UUID      `json:"service_id,omitempty"`
	ProfessionalID *uuid.UUID      `json:"professional_id,omitempty"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID              uuid.UUID          `json:"id"`
	CustomerID      *uuid.UUID         `json:"customer_id,omitempty"`
	Customer        string             `json:"customer"`
	CashRegisterID  *uuid.UUID         `json:"cash_register_id,omitempty"`
	PaymentMethodID *uuid.UUID         `json:"payment_method_id,omitempty"`
	PaymentStatus   string             `json:"payment_status"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Discount        decimal.Decimal    `json:"discount"`
	Total           decimal.Decimal    `json:"total"`
	PaidAt          *time.Time         `json:"paid_at,omitempty"`
	Items           []SaleItemResponse `json:"items"`
	Version         int                `json:"version"`
}

// PaymentResponse reports what paying a sale derived
type PaymentResponse struct {
	Sale        SaleResponse               `json:"sale"`
	AlreadyPaid bool                       `json:"already_paid"`
	Transaction ledger.DerivationSummary   `json:"transaction"`
	Movements   []ledger.DerivationSummary `json:"movements"`
	Commissions []ledger.DerivationSummary `json:"commissions"`
	Warnings    []ledger.Warning           `json:"warnings"`
}

// RegisterResponse represents a cash register in API responses
type RegisterResponse struct {
	ID              uuid.UUID       `json:"id"`
	OperatorID      uuid.UUID       `json:"operator_id"`
	Status          string          `json:"status"`
	OpenedAt        time.Time       `json:"opened_at"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Notes           string          `json:"notes,omitempty"`
	Version         int             `json:"version"`
}

// ToSaleResponse converts a domain sale to a response
func ToSaleResponse(s *pos.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ServiceID:      item.ServiceID,
			ProfessionalID: item.ProfessionalID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Total:          item.Total,
		}
	}
	return SaleResponse{
		ID:              s.ID,
		CustomerID:      s.CustomerID,
		Customer:        s.CustomerLabel(),
		CashRegisterID:  s.CashRegisterID,
		PaymentMethodID: s.PaymentMethodID,
		PaymentStatus:   string(s.PaymentStatus),
		Subtotal:        s.Subtotal,
		Discount:        s.Discount,
		Total:           s.Total,
		PaidAt:          s.PaidAt,
		Items:           items,
		Version:         s.Version,
	}
}

// ToPaymentResponse converts a finalization result to a response
func ToPaymentResponse(r *ledger.FinalizationResult) PaymentResponse {
	resp := PaymentResponse{
		Sale:        ToSaleResponse(r.Sale),
		AlreadyPaid: r.AlreadyPaid,
		Transaction: r.Transaction.Summary(),
		Movements:   make([]ledger.DerivationSummary, len(r.Movements)),
		Commissions: make([]ledger.DerivationSummary, len(r.Commissions)),
		Warnings:    r.Warnings,
	}
	for i, m := range r.Movements {
		resp.Movements[i] = m.Summary()
	}
	for i, c := range r.Commissions {
		resp.Commissions[i] = c.Summary()
	}
	if resp.Warnings == nil {
		resp.Warnings = []ledger.Warning{}
	}
	return resp
}

// ToRegisterResponse converts a domain register to a response
func ToRegisterResponse(r *pos.CashRegister) RegisterResponse {
	return RegisterResponse{
		ID:              r.ID,
		OperatorID:      r.OperatorID,
		Status:          string(r.Status),
		OpenedAt:        r.OpenedAt,
		ClosedAt:        r.ClosedAt,
		OpeningBalance:  r.OpeningBalance,
		ClosingBalance:  r.ClosingBalance,
		ExpectedBalance: r.ExpectedBalance,
		Difference:      r.Difference,
		Notes:           r.Notes,
		Version:         r.Version,
	}
}
