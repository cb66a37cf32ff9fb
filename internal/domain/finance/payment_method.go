package finance

import (
	"strings"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentKind represents how a customer pays
type PaymentKind string

const (
	PaymentKindCash     PaymentKind = "CASH"
	PaymentKindCard     PaymentKind = "CARD"
	PaymentKindPix      PaymentKind = "PIX"
	PaymentKindTransfer PaymentKind = "TRANSFER"
	PaymentKindOther    PaymentKind = "OTHER"
)

// IsValid checks if the kind is valid
func (k PaymentKind) IsValid() bool {
	switch k {
	case PaymentKindCash, PaymentKindCard, PaymentKindPix, PaymentKindTransfer, PaymentKindOther:
		return true
	}
	return false
}

// PaymentMethod is a tenant-configured way of receiving money.
// A tenant has at most one active default.
type PaymentMethod struct {
	shared.TenantAggregateRoot
	Name      string
	Kind      PaymentKind
	IsDefault bool
	Active    bool
}

// NewPaymentMethod creates an active, non-default payment method
func NewPaymentMethod(tenantID uuid.UUID, name string, kind PaymentKind) (*PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Payment method name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid payment kind %q", kind)
	}
	return &PaymentMethod{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Kind:                kind,
		Active:              true,
	}, nil
}

// IsUsableDefault reports whether the method can serve as the tenant default
func (m *PaymentMethod) IsUsableDefault() bool {
	return m.Active && m.IsDefault
}

// MarkDefault flags the method as the tenant default
func (m *PaymentMethod) MarkDefault() {
	m.IsDefault = true
	m.Touch()
	m.IncrementVersion()
}

// Deactivate disables the method; a disabled method is never the default
func (m *PaymentMethod) Deactivate() {
	m.Active = false
	m.IsDefault = false
	m.Touch()
	m.IncrementVersion()
}

// ClearDefault removes the default flag, used when another method takes over
func (m *PaymentMethod) ClearDefault() {
	if !m.IsDefault {
		return
	}
	m.IsDefault = false
	m.Touch()
	m.IncrementVersion()
}
