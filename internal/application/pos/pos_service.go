package pos

import (
	"context"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService runs the point of sale: pending sales, payment and the cash
// registers that receive it
type SaleService struct {
	scope        ledger.TransactionScope
	finalization *ledger.SaleFinalization
	registers    *ledger.CashRegisterReconciler
	logger       *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	scope ledger.TransactionScope,
	finalization *ledger.SaleFinalization,
	registers *ledger.CashRegisterReconciler,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:        scope,
		finalization: finalization,
		registers:    registers,
		logger:       logger,
	}
}

// CreateSale records a pending sale. Product lines must reference products
// of the same tenant.
func (s *SaleService) CreateSale(ctx context.Context, tenantID, actorID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("A sale needs at least one line")
	}

	sale := pos.NewSale(tenantID, req.CustomerID, req.CustomerName)
	sale.SetCreatedBy(actorID)

	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		for i, line := range req.Items {
			var err error
			switch {
			case line.ProductID != nil && line.ServiceID == nil:
				if _, err = repos.Products().FindByID(ctx, tenantID, *line.ProductID); err != nil {
					if shared.IsNotFound(err) {
						return shared.ErrNotFound.WithMessage("Product %s not found", *line.ProductID)
					}
					return err
				}
				_, err = sale.AddProductLine(*line.ProductID, line.ProfessionalID, line.Description, line.Quantity, line.UnitPrice)
			case line.ServiceID != nil && line.ProductID == nil:
				_, err = sale.AddServiceLine(*line.ServiceID, line.ProfessionalID, line.Description, line.Quantity, line.UnitPrice)
			default:
				err = shared.ErrInvalidInput.WithMessage("Line %d must reference exactly one of product_id or service_id", i+1)
			}
			if err != nil {
				return err
			}
		}
		if req.Discount != nil {
			if err := sale.ApplyDiscount(*req.Discount); err != nil {
				return err
			}
		}
		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.Int("lines", len(sale.Items)),
		zap.String("total", sale.Total.String()),
	)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// GetSale returns a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	var resp SaleResponse
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		sale, err := repos.Sales().FindByID(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		resp = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// PaySale takes payment for a pending sale. Paying it again re-runs the
// derivations, which skip as duplicates.
func (s *SaleService) PaySale(ctx context.Context, tenantID, actorID, saleID uuid.UUID, req PaySaleRequest) (*PaymentResponse, error) {
	result, err := s.finalization.Finalize(ctx, ledger.FinalizeSaleRequest{
		TenantID:        tenantID,
		ActorID:         actorID,
		SaleID:          saleID,
		CashRegisterID:  req.CashRegisterID,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(result)
	return &resp, nil
}

// CancelSale cancels a pending sale
func (s *SaleService) CancelSale(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *pos.Sale
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := sale.Cancel(); err != nil {
			return err
		}
		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// OpenRegister opens a register for the acting operator
func (s *SaleService) OpenRegister(ctx context.Context, tenantID, operatorID uuid.UUID, req OpenRegisterRequest) (*RegisterResponse, error) {
	register, err := s.registers.OpenRegister(ctx, tenantID, operatorID, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	resp := ToRegisterResponse(register)
	return &resp, nil
}

// CloseRegister closes and reconciles a register
func (s *SaleService) CloseRegister(ctx context.Context, tenantID, registerID uuid.UUID, req CloseRegisterRequest) (*RegisterResponse, error) {
	register, err := s.registers.CloseRegister(ctx, tenantID, registerID, req.ClosingBalance, req.Notes)
	if err != nil {
		return nil, err
	}
	resp := ToRegisterResponse(register)
	return &resp, nil
}

// GetRegister returns a register
func (s *SaleService) GetRegister(ctx context.Context, tenantID, registerID uuid.UUID) (*RegisterResponse, error) {
	register, err := s.registers.GetRegister(ctx, tenantID, registerID)
	if err != nil {
		return nil, err
	}
	resp := ToRegisterResponse(register)
	return &resp, nil
}
