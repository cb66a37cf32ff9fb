package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinalizeSaleRequest asks to take payment for a pending sale
type FinalizeSaleRequest struct {
	TenantID        uuid.UUID
	ActorID         uuid.UUID
	SaleID          uuid.UUID
	CashRegisterID  *uuid.UUID
	PaymentMethodID *uuid.UUID
}

// FinalizationResult reports what paying a sale derived
type FinalizationResult struct {
	Sale        *pos.Sale
	AlreadyPaid bool
	Movements   []*MovementResult
	Transaction TransactionResult
	Commissions []CommissionResult
	Warnings    []Warning
}

// SaleFinalization marks a sale PAID and, in the same unit of work, deducts
// stock for product lines, records the revenue transaction and derives a
// commission for every line with a professional.
type SaleFinalization struct {
	scope        TransactionScope
	stock        *StockLedger
	commissions  *CommissionLedger
	transactions *TransactionLedger
	logger       *zap.Logger
	now          func() time.Time
}

// NewSaleFinalization creates a new SaleFinalization
func NewSaleFinalization(
	scope TransactionScope,
	stock *StockLedger,
	commissions *CommissionLedger,
	transactions *TransactionLedger,
	logger *zap.Logger,
) *SaleFinalization {
	return &SaleFinalization{
		scope:        scope,
		stock:        stock,
		commissions:  commissions,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// Finalize pays the sale. Insufficient stock on any line aborts the whole
// payment. Paying an already paid sale re-runs the derivations, which skip.
func (s *SaleFinalization) Finalize(ctx context.Context, req FinalizeSaleRequest) (*FinalizationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale_finalization", "finalize")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		telemetry.SpanAttrActorID, req.ActorID.String(),
		telemetry.SpanAttrSaleID, req.SaleID.String(),
	)

	var result *FinalizationResult
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = s.finalize(ctx, repos, req)
		return err
	})
	if err != nil {
		s.logger.Error("sale finalization failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("sale_id", req.SaleID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, m := range result.Movements {
		s.stock.publish(ctx, m.events)
	}

	s.logger.Info("sale finalized",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.String("total", result.Sale.Total.String()),
		zap.Bool("already_paid", result.AlreadyPaid),
		zap.Int("movements", len(result.Movements)),
		zap.Int("commissions", len(result.Commissions)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (s *SaleFinalization) finalize(ctx context.Context, repos Repositories, req FinalizeSaleRequest) (*FinalizationResult, error) {
	sale, err := repos.Sales().FindByIDForUpdate(ctx, req.TenantID, req.SaleID)
	if err != nil {
		return nil, err
	}

	result := &FinalizationResult{Sale: sale, AlreadyPaid: sale.IsPaid()}

	if !result.AlreadyPaid {
		if err := s.takePayment(ctx, repos, sale, req); err != nil {
			return nil, err
		}
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		if !item.IsProduct() {
			continue
		}
		itemID := item.ID
		movement, err := s.stock.ApplyMovementIn(ctx, repos, sale.TenantID, req.ActorID, MovementRequest{
			ProductID:  *item.ProductID,
			Direction:  inventory.DirectionOut,
			Reason:     inventory.ReasonSale,
			Quantity:   item.Quantity,
			SourceType: inventory.SourceTypeSaleItem,
			SourceID:   &itemID,
			Notes:      sale.Description(),
		})
		if err != nil {
			return nil, err
		}
		result.Movements = append(result.Movements, movement)
	}

	result.Transaction, err = s.transactions.OnSalePaidIn(ctx, repos, req.ActorID, sale)
	if err != nil {
		return nil, err
	}
	if result.Transaction.Reason == SkipZeroAmount {
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarningZeroAmount,
			Message: fmt.Sprintf("Sale %s has a zero total; no revenue was recorded", sale.ID),
		})
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		if !item.HasProfessional() {
			continue
		}
		if !item.Total.IsPositive() {
			result.Commissions = append(result.Commissions, CommissionResult{Outcome: OutcomeSkipped, Reason: SkipZeroAmount})
			continue
		}
		saleID := sale.ID
		cres, err := s.commissions.OnWorkCompletedIn(ctx, repos, commission.WorkCompleted{
			TenantID:       sale.TenantID,
			ProfessionalID: *item.ProfessionalID,
			SourceType:     commission.SourceSaleItem,
			SourceID:       item.ID,
			SaleID:         &saleID,
			ServiceID:      item.CatalogID(),
			BaseAmount:     item.Total,
			EarnedDate:     *sale.PaidAt,
		})
		if err != nil {
			return nil, err
		}
		if cres.Reason == SkipNoRule {
			result.Warnings = append(result.Warnings, Warning{
				Code:    WarningNoRule,
				Message: fmt.Sprintf("No commission rule applies to professional %s for %q", *item.ProfessionalID, item.Description),
			})
		}
		result.Commissions = append(result.Commissions, cres)
	}

	return result, nil
}

// takePayment binds register and payment method and marks the sale PAID
func (s *SaleFinalization) takePayment(ctx context.Context, repos Repositories, sale *pos.Sale, req FinalizeSaleRequest) error {
	if req.PaymentMethodID != nil {
		method, err := repos.PaymentMethods().FindByID(ctx, sale.TenantID, *req.PaymentMethodID)
		if err != nil {
			return err
		}
		if !method.Active {
			return shared.ErrInvalidInput.WithMessage("Payment method %s is inactive", method.ID)
		}
		sale.SetPaymentMethod(method.ID)
	}

	registerID := req.CashRegisterID
	if registerID == nil {
		registerID = sale.CashRegisterID
	}
	if registerID != nil {
		// locked so a concurrent close cannot miss this sale
		register, err := repos.CashRegisters().FindByIDForUpdate(ctx, sale.TenantID, *registerID)
		if err != nil {
			return err
		}
		if err := sale.AttachToRegister(register); err != nil {
			return err
		}
	}

	if err := sale.MarkPaid(s.now()); err != nil {
		return err
	}
	if err := repos.Sales().Save(ctx, sale); err != nil {
		return fmt.Errorf("failed to save sale: %w", err)
	}
	return nil
}
