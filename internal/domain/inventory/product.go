package inventory

import (
	"strings"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the aggregate root that owns a stock balance.
// StockQuantity is only ever changed through ApplyMovement.
type Product struct {
	shared.TenantAggregateRoot
	Name              string
	SKU               string
	CostPrice         decimal.Decimal
	SalePrice         decimal.Decimal
	StockQuantity     decimal.Decimal
	MinStockThreshold decimal.Decimal
	Active            bool
}

// NewProduct creates an active product with zero stock
func NewProduct(tenantID uuid.UUID, name, sku string, costPrice, salePrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Product name cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.ErrInvalidAmount.WithMessage("Product prices cannot be negative")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SKU:                 strings.TrimSpace(sku),
		CostPrice:           costPrice,
		SalePrice:           salePrice,
		StockQuantity:       decimal.Zero,
		MinStockThreshold:   decimal.Zero,
		Active:              true,
	}, nil
}

// SetMinStockThreshold sets the low-stock alert threshold. Zero disables the alert.
func (p *Product) SetMinStockThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("Minimum stock threshold cannot be negative")
	}
	p.MinStockThreshold = threshold
	p.Touch()
	return nil
}

// IsBelowThreshold reports whether the balance is at or below the alert threshold
func (p *Product) IsBelowThreshold() bool {
	return p.MinStockThreshold.IsPositive() && p.StockQuantity.LessThanOrEqual(p.MinStockThreshold)
}

// CanFulfill reports whether quantity can be withdrawn
func (p *Product) CanFulfill(quantity decimal.Decimal) bool {
	return p.StockQuantity.GreaterThanOrEqual(quantity)
}

// MovementSpec describes a requested stock change
type MovementSpec struct {
	Direction  Direction
	Reason     Reason
	Quantity   decimal.Decimal
	UnitCost   *decimal.Decimal
	SourceType string
	SourceID   *uuid.UUID
	Notes      string
}

// ApplyMovement validates and applies a stock change, returning the movement
// record to persist. On error the product is left untouched.
func (p *Product) ApplyMovement(actorID uuid.UUID, spec MovementSpec) (*StockMovement, error) {
	if !spec.Direction.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid movement direction %q", spec.Direction)
	}
	if !spec.Reason.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid movement reason %q", spec.Reason)
	}
	if !spec.Reason.AllowsDirection(spec.Direction) {
		return nil, shared.ErrInvalidInput.WithMessage("Reason %s cannot be used with direction %s", spec.Reason, spec.Direction)
	}
	if !spec.Quantity.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity must be positive")
	}
	if !valueobject.FitsPlaces(spec.Quantity, valueobject.QuantityPlaces) {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity %s has more than %d decimals", spec.Quantity, valueobject.QuantityPlaces)
	}
	if spec.UnitCost != nil && spec.UnitCost.IsNegative() {
		return nil, shared.ErrInvalidAmount.WithMessage("Unit cost cannot be negative")
	}
	if (spec.SourceType == "") != (spec.SourceID == nil) {
		return nil, shared.ErrInvalidInput.WithMessage("Source type and source id must be given together")
	}

	before := p.StockQuantity
	var after decimal.Decimal
	if spec.Direction == DirectionIn {
		after = before.Add(spec.Quantity)
	} else {
		if !p.CanFulfill(spec.Quantity) {
			return nil, shared.ErrInsufficientStock.WithMessage(
				"Insufficient stock for product %s: available %s, requested %s",
				p.ID, before.String(), spec.Quantity.String())
		}
		after = before.Sub(spec.Quantity)
	}

	unitCost := p.CostPrice
	if spec.UnitCost != nil {
		unitCost = *spec.UnitCost
	}

	movement := &StockMovement{
		TenantEntity: shared.NewTenantEntity(p.TenantID),
		ProductID:    p.ID,
		Direction:    spec.Direction,
		Reason:       spec.Reason,
		Quantity:     spec.Quantity,
		StockBefore:  before,
		StockAfter:   after,
		UnitCost:     unitCost,
		SourceType:   spec.SourceType,
		SourceID:     spec.SourceID,
		Notes:        spec.Notes,
	}
	movement.SetCreatedBy(actorID)

	p.StockQuantity = after
	p.Touch()
	p.IncrementVersion()

	if spec.Direction == DirectionOut {
		threshold := p.MinStockThreshold
		if threshold.IsPositive() && before.GreaterThan(threshold) && after.LessThanOrEqual(threshold) {
			p.RaiseEvent(NewStockBelowThresholdEvent(p, before))
		}
		if before.IsPositive() && after.IsZero() {
			p.RaiseEvent(NewOutOfStockEvent(p, movement.ID))
		}
	}

	return movement, nil
}

// Deactivate hides the product from sale; its stock history is kept
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
	p.IncrementVersion()
}
