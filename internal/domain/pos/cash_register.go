package pos

import (
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterStatus represents whether a register session is open
type RegisterStatus string

const (
	RegisterStatusOpen   RegisterStatus = "OPEN"
	RegisterStatusClosed RegisterStatus = "CLOSED"
)

// CashRegister is one operator's till session. An operator has at most one
// open register per tenant; a closed register is terminal.
type CashRegister struct {
	shared.TenantAggregateRoot
	OperatorID      uuid.UUID
	OpenedAt        time.Time
	ClosedAt        *time.Time
	OpeningBalance  decimal.Decimal
	ClosingBalance  decimal.Decimal
	ExpectedBalance decimal.Decimal
	Difference      decimal.Decimal
	Status          RegisterStatus
	Notes           string
}

// OpenCashRegister starts a register session
func OpenCashRegister(tenantID, operatorID uuid.UUID, openingBalance decimal.Decimal, at time.Time) (*CashRegister, error) {
	if operatorID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Operator ID cannot be empty")
	}
	if openingBalance.IsNegative() {
		return nil, shared.ErrInvalidAmount.WithMessage("Opening balance cannot be negative")
	}
	r := &CashRegister{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OperatorID:          operatorID,
		OpenedAt:            at,
		OpeningBalance:      openingBalance,
		Status:              RegisterStatusOpen,
	}
	r.SetCreatedBy(operatorID)
	return r, nil
}

// IsOpen reports whether the register accepts sales
func (r *CashRegister) IsOpen() bool {
	return r.Status == RegisterStatusOpen
}

// Close reconciles the register against the paid sales it received.
// expected = opening + paidSales, difference = closing - expected.
func (r *CashRegister) Close(closingBalance, paidSales decimal.Decimal, notes string, at time.Time) error {
	if !r.IsOpen() {
		return shared.ErrRegisterAlreadyClosed.WithMessage("Cash register %s is already closed", r.ID)
	}
	if closingBalance.IsNegative() {
		return shared.ErrInvalidAmount.WithMessage("Closing balance cannot be negative")
	}
	r.ClosingBalance = closingBalance
	r.ExpectedBalance = r.OpeningBalance.Add(paidSales)
	r.Difference = closingBalance.Sub(r.ExpectedBalance)
	r.Status = RegisterStatusClosed
	r.ClosedAt = &at
	r.Notes = notes
	r.Touch()
	r.IncrementVersion()
	return nil
}
