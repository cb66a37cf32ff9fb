package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashRegisterReconciler opens register sessions and reconciles them on close
type CashRegisterReconciler struct {
	scope  TransactionScope
	logger *zap.Logger
	now    func() time.Time
}

// NewCashRegisterReconciler creates a new CashRegisterReconciler
func NewCashRegisterReconciler(scope TransactionScope, logger *zap.Logger) *CashRegisterReconciler {
	return &CashRegisterReconciler{
		scope:  scope,
		logger: logger,
		now:    time.Now,
	}
}

// OpenRegister opens a register for the operator. An operator holds at most
// one open register per tenant.
func (r *CashRegisterReconciler) OpenRegister(ctx context.Context, tenantID, operatorID uuid.UUID, openingBalance decimal.Decimal) (*pos.CashRegister, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cash_register", "open")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrActorID, operatorID.String(),
	)

	var register *pos.CashRegister
	err := r.scope.Execute(ctx, func(repos Repositories) error {
		open, err := repos.CashRegisters().FindOpenByOperator(ctx, tenantID, operatorID)
		if err != nil && !shared.IsNotFound(err) {
			return fmt.Errorf("failed to check open register: %w", err)
		}
		if open != nil {
			return shared.ErrRegisterAlreadyOpen.WithMessage("Operator %s already has open register %s", operatorID, open.ID)
		}

		register, err = pos.OpenCashRegister(tenantID, operatorID, openingBalance, r.now())
		if err != nil {
			return err
		}

		// the partial unique index catches a concurrent open that passed the check above
		inserted, err := repos.CashRegisters().CreateIfNoneOpen(ctx, register)
		if err != nil {
			return fmt.Errorf("failed to save cash register: %w", err)
		}
		if !inserted {
			return shared.ErrRegisterAlreadyOpen.WithMessage("Operator %s already has an open register", operatorID)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("failed to open cash register",
			zap.String("tenant_id", tenantID.String()),
			zap.String("operator_id", operatorID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.logger.Info("cash register opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("register_id", register.ID.String()),
		zap.String("operator_id", operatorID.String()),
		zap.String("opening_balance", openingBalance.String()),
	)
	return register, nil
}

// CloseRegister closes the register and computes expected balance and
// difference from the PAID sales attached to it. Closing is terminal.
func (r *CashRegisterReconciler) CloseRegister(ctx context.Context, tenantID, registerID uuid.UUID, closingBalance decimal.Decimal, notes string) (*pos.CashRegister, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cash_register", "close")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrRegisterID, registerID.String(),
	)

	var register *pos.CashRegister
	err := r.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		register, err = repos.CashRegisters().FindByIDForUpdate(ctx, tenantID, registerID)
		if err != nil {
			return err
		}
		if !register.IsOpen() {
			return shared.ErrRegisterAlreadyClosed.WithMessage("Cash register %s is already closed", registerID)
		}

		paidSales, err := repos.Sales().SumPaidByRegister(ctx, tenantID, registerID)
		if err != nil {
			return fmt.Errorf("failed to total paid sales: %w", err)
		}

		if err := register.Close(closingBalance, paidSales, notes, r.now()); err != nil {
			return err
		}
		if err := repos.CashRegisters().SaveWithLock(ctx, register); err != nil {
			return fmt.Errorf("failed to save cash register: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	fields := []zap.Field{
		zap.String("tenant_id", tenantID.String()),
		zap.String("register_id", register.ID.String()),
		zap.String("expected_balance", register.ExpectedBalance.String()),
		zap.String("closing_balance", register.ClosingBalance.String()),
		zap.String("difference", register.Difference.String()),
	}
	if register.Difference.IsZero() {
		r.logger.Info("cash register closed", fields...)
	} else {
		r.logger.Warn("cash register closed with difference", fields...)
	}
	return register, nil
}

// GetRegister returns a register of the tenant
func (r *CashRegisterReconciler) GetRegister(ctx context.Context, tenantID, registerID uuid.UUID) (*pos.CashRegister, error) {
	var register *pos.CashRegister
	err := r.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		register, err = repos.CashRegisters().FindByID(ctx, tenantID, registerID)
		return err
	})
	return register, err
}

// GetOpenRegister returns the operator's open register, or ErrNotFound
func (r *CashRegisterReconciler) GetOpenRegister(ctx context.Context, tenantID, operatorID uuid.UUID) (*pos.CashRegister, error) {
	var register *pos.CashRegister
	err := r.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		register, err = repos.CashRegisters().FindOpenByOperator(ctx, tenantID, operatorID)
		return err
	})
	return register, err
}
