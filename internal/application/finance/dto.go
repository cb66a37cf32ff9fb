package finance

import (
	"time"

	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionListFilter represents filtering options for the transaction listing
type TransactionListFilter struct {
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Type       string     `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Category   string     `form:"category" binding:"omitempty,oneof=SERVICE_REVENUE PRODUCT_SALE SUPPLIER_EXPENSE"`
	SourceType string     `form:"source_type" binding:"omitempty,oneof=APPOINTMENT SALE STOCK_MOVEMENT"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreatePaymentMethodRequest represents a request to add a payment method
type CreatePaymentMethodRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Kind      string `json:"kind" binding:"required,oneof=CASH CARD PIX TRANSFER OTHER"`
	IsDefault bool   `json:"is_default"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	SignedAmount    decimal.Decimal `json:"signed_amount"`
	Date            time.Time       `json:"date"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id,omitempty"`
	Description     string          `json:"description"`
	SourceType      string          `json:"source_type"`
	SourceID        uuid.UUID       `json:"source_id"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionSummary totals the transactions on the current page
type TransactionSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	IsDefault bool      `json:"is_default"`
	Active    bool      `json:"active"`
}

// ToTransactionResponse converts a domain transaction to a response
func ToTransactionResponse(t *finance.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Type:            string(t.Type),
		Category:        string(t.Category),
		Amount:          t.Amount,
		SignedAmount:    t.SignedAmount(),
		Date:            t.Date,
		PaymentMethodID: t.PaymentMethodID,
		Description:     t.Description,
		SourceType:      string(t.SourceType),
		SourceID:        t.SourceID,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions
func ToTransactionResponses(transactions []finance.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToTransactionResponse(&transactions[i])
	}
	return responses
}

// Summarize totals income and expense of the given transactions
func Summarize(transactions []finance.Transaction) TransactionSummary {
	summary := TransactionSummary{Income: decimal.Zero, Expense: decimal.Zero}
	for i := range transactions {
		if transactions[i].Type == finance.TransactionTypeExpense {
			summary.Expense = summary.Expense.Add(transactions[i].Amount)
		} else {
			summary.Income = summary.Income.Add(transactions[i].Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)
	return summary
}

// ToPaymentMethodResponse converts a domain payment method to a response
func ToPaymentMethodResponse(m *finance.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:        m.ID,
		Name:      m.Name,
		Kind:      string(m.Kind),
		IsDefault: m.IsDefault,
		Active:    m.Active,
	}
}
