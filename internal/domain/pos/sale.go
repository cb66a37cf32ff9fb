package pos

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of a sale
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// WalkInCustomerLabel is used for sales without a customer
const WalkInCustomerLabel = "walk-in"

// SaleItem is a single line of a sale. It references exactly one of a
// product or a service.
type SaleItem struct {
	shared.BaseEntity
	SaleID         uuid.UUID
	ProductID      *uuid.UUID
	ServiceID      *uuid.UUID
	ProfessionalID *uuid.UUID
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Total          decimal.Decimal
}

// IsProduct reports whether the line sells a product
func (i *SaleItem) IsProduct() bool {
	return i.ProductID != nil
}

// CatalogID returns the product or service id of the line
func (i *SaleItem) CatalogID() uuid.UUID {
	if i.ProductID != nil {
		return *i.ProductID
	}
	if i.ServiceID != nil {
		return *i.ServiceID
	}
	return uuid.Nil
}

// HasProfessional reports whether a professional is credited with the line
func (i *SaleItem) HasProfessional() bool {
	return i.ProfessionalID != nil && *i.ProfessionalID != uuid.Nil
}

func (i *SaleItem) validate() error {
	if (i.ProductID == nil) == (i.ServiceID == nil) {
		return shared.ErrInvalidInput.WithMessage("Sale line must reference exactly one of product or service")
	}
	if !i.Quantity.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Sale line quantity must be positive")
	}
	if i.UnitPrice.IsNegative() {
		return shared.ErrInvalidAmount.WithMessage("Sale line unit price cannot be negative")
	}
	return nil
}

// Sale is a point-of-sale ticket
type Sale struct {
	shared.TenantAggregateRoot
	CustomerID      *uuid.UUID
	CustomerName    string
	CashRegisterID  *uuid.UUID
	PaymentMethodID *uuid.UUID
	PaymentStatus   PaymentStatus
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PaidAt          *time.Time
	Items           []SaleItem
}

// NewSale creates an empty pending sale
func NewSale(tenantID uuid.UUID, customerID *uuid.UUID, customerName string) *Sale {
	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		CustomerName:        strings.TrimSpace(customerName),
		PaymentStatus:       PaymentStatusPending,
		Subtotal:            decimal.Zero,
		Discount:            decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]SaleItem, 0),
	}
}

// AddProductLine adds a product line
func (s *Sale) AddProductLine(productID uuid.UUID, professionalID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*SaleItem, error) {
	return s.addLine(&productID, nil, professionalID, description, quantity, unitPrice)
}

// AddServiceLine adds a service line
func (s *Sale) AddServiceLine(serviceID uuid.UUID, professionalID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*SaleItem, error) {
	return s.addLine(nil, &serviceID, professionalID, description, quantity, unitPrice)
}

func (s *Sale) addLine(productID, serviceID, professionalID *uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*SaleItem, error) {
	if s.PaymentStatus != PaymentStatusPending {
		return nil, shared.ErrInvalidState.WithMessage("Cannot add lines to a %s sale", s.PaymentStatus)
	}
	item := SaleItem{
		BaseEntity:     shared.NewBaseEntity(),
		SaleID:         s.ID,
		ProductID:      productID,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Description:    description,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		Total:          valueobject.RoundAmount(quantity.Mul(unitPrice)),
	}
	if err := item.validate(); err != nil {
		return nil, err
	}
	s.Items = append(s.Items, item)
	s.recalculateTotals()
	s.Touch()
	return &s.Items[len(s.Items)-1], nil
}

// ApplyDiscount sets an absolute discount, bounded by the subtotal
func (s *Sale) ApplyDiscount(discount decimal.Decimal) error {
	if s.PaymentStatus != PaymentStatusPending {
		return shared.ErrInvalidState.WithMessage("Cannot discount a %s sale", s.PaymentStatus)
	}
	if discount.IsNegative() || discount.GreaterThan(s.Subtotal) {
		return shared.ErrInvalidAmount.WithMessage("Discount must be between 0 and the subtotal")
	}
	s.Discount = discount
	s.recalculateTotals()
	s.Touch()
	return nil
}

// AttachToRegister records the register that receives the payment
func (s *Sale) AttachToRegister(register *CashRegister) error {
	if register == nil {
		return nil
	}
	if register.TenantID != s.TenantID {
		return shared.ErrCrossTenant.WithMessage("Cash register %s belongs to another tenant", register.ID)
	}
	if !register.IsOpen() {
		return shared.ErrRegisterNotOpen.WithMessage("Cash register %s is not open", register.ID)
	}
	id := register.ID
	s.CashRegisterID = &id
	s.Touch()
	return nil
}

// SetPaymentMethod records how the sale is paid
func (s *Sale) SetPaymentMethod(paymentMethodID uuid.UUID) {
	if paymentMethodID == uuid.Nil {
		return
	}
	s.PaymentMethodID = &paymentMethodID
	s.Touch()
}

// MarkPaid transitions a pending sale to PAID
func (s *Sale) MarkPaid(at time.Time) error {
	if s.PaymentStatus != PaymentStatusPending {
		return shared.ErrInvalidState.WithMessage("Cannot pay a %s sale", s.PaymentStatus)
	}
	if len(s.Items) == 0 {
		return shared.ErrInvalidState.WithMessage("Cannot pay a sale without lines")
	}
	if err := s.CheckTotals(); err != nil {
		return err
	}
	s.PaymentStatus = PaymentStatusPaid
	s.PaidAt = &at
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Cancel cancels a pending sale
func (s *Sale) Cancel() error {
	if s.PaymentStatus != PaymentStatusPending {
		return shared.ErrInvalidState.WithMessage("Cannot cancel a %s sale", s.PaymentStatus)
	}
	s.PaymentStatus = PaymentStatusCancelled
	s.Touch()
	s.IncrementVersion()
	return nil
}

// IsPaid reports whether the sale has been paid
func (s *Sale) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// CustomerLabel returns the customer name or the walk-in label
func (s *Sale) CustomerLabel() string {
	if s.CustomerName != "" {
		return s.CustomerName
	}
	return WalkInCustomerLabel
}

// Description returns the accounting description of the sale
func (s *Sale) Description() string {
	return fmt.Sprintf("Sale %s - %s", s.ID, s.CustomerLabel())
}

// CheckTotals verifies subtotal, discount and total against the lines.
// Rows loaded from storage are checked before any money is derived from them.
func (s *Sale) CheckTotals() error {
	subtotal := decimal.Zero
	for i := range s.Items {
		if err := s.Items[i].validate(); err != nil {
			return err
		}
		subtotal = subtotal.Add(s.Items[i].Total)
	}
	if !subtotal.Equal(s.Subtotal) {
		return shared.ErrInvariantViolation.WithMessage("Sale %s subtotal %s does not match lines %s", s.ID, s.Subtotal, subtotal)
	}
	if s.Discount.IsNegative() || s.Discount.GreaterThan(s.Subtotal) {
		return shared.ErrInvariantViolation.WithMessage("Sale %s discount %s out of range", s.ID, s.Discount)
	}
	if !s.Total.Equal(s.Subtotal.Sub(s.Discount)) {
		return shared.ErrInvariantViolation.WithMessage("Sale %s total %s does not equal subtotal minus discount", s.ID, s.Total)
	}
	return nil
}

func (s *Sale) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Total)
	}
	s.Subtotal = subtotal
	if s.Discount.GreaterThan(subtotal) {
		s.Discount = subtotal
	}
	s.Total = s.Subtotal.Sub(s.Discount)
}
