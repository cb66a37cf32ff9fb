package ledger

import (
	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Outcome of a derivation attempt
type Outcome string

const (
	OutcomeCreated Outcome = "CREATED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// SkipReason explains a skipped derivation
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipDuplicate  SkipReason = "DUPLICATE"
	SkipNoRule     SkipReason = "NO_RULE"
	SkipZeroAmount SkipReason = "ZERO_AMOUNT"
)

// Warning codes reported by the orchestrators
const (
	WarningNoRule               = "NO_RULE"
	WarningZeroAmount           = "ZERO_AMOUNT"
	WarningMissingPaymentMethod = "MISSING_PAYMENT_METHOD"
)

// Warning is a non-fatal condition the operator should be told about
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CommissionResult is the outcome of CommissionLedger.OnWorkCompleted
type CommissionResult struct {
	Outcome    Outcome
	Reason     SkipReason
	Commission *commission.Commission // nil when skipped for NO_RULE
}

// Created reports whether a new commission was written
func (r CommissionResult) Created() bool { return r.Outcome == OutcomeCreated }

// TransactionResult is the outcome of a TransactionLedger derivation
type TransactionResult struct {
	Outcome     Outcome
	Reason      SkipReason
	Transaction *finance.Transaction // nil when skipped for ZERO_AMOUNT
}

// Created reports whether a new transaction was written
func (r TransactionResult) Created() bool { return r.Outcome == OutcomeCreated }

// MovementResult is the outcome of StockLedger.ApplyMovement
type MovementResult struct {
	Outcome  Outcome
	Reason   SkipReason
	Movement *inventory.StockMovement
	Product  *inventory.Product
	// Purchase is set for inbound purchases
	Purchase *TransactionResult

	events []shared.DomainEvent
}

// Events returns the domain events raised by the movement
func (r *MovementResult) Events() []shared.DomainEvent { return r.events }

// DerivationSummary is the adapter-facing view of a derivation outcome
type DerivationSummary struct {
	Outcome Outcome    `json:"outcome"`
	Reason  SkipReason `json:"reason,omitempty"`
	ID      *uuid.UUID `json:"id,omitempty"`
}

// Summary returns the outcome with the commission id, if any
func (r CommissionResult) Summary() DerivationSummary {
	s := DerivationSummary{Outcome: r.Outcome, Reason: r.Reason}
	if r.Commission != nil {
		id := r.Commission.ID
		s.ID = &id
	}
	return s
}

// Summary returns the outcome with the transaction id, if any
func (r TransactionResult) Summary() DerivationSummary {
	s := DerivationSummary{Outcome: r.Outcome, Reason: r.Reason}
	if r.Transaction != nil {
		id := r.Transaction.ID
		s.ID = &id
	}
	return s
}

// Summary returns the outcome with the movement id
func (r *MovementResult) Summary() DerivationSummary {
	s := DerivationSummary{Outcome: r.Outcome, Reason: r.Reason}
	if r.Movement != nil {
		id := r.Movement.ID
		s.ID = &id
	}
	return s
}
