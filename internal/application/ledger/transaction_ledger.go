package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/pos"
	"github.com/bizcore/backend/internal/domain/scheduling"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionLedger derives accounting transactions from completed appointments,
// paid sales and stock purchases. Each source yields at most one transaction.
type TransactionLedger struct {
	scope   TransactionScope
	logger  *zap.Logger
	metrics *telemetry.LedgerMetrics
	now     func() time.Time
}

// NewTransactionLedger creates a new TransactionLedger
func NewTransactionLedger(scope TransactionScope, logger *zap.Logger, metrics *telemetry.LedgerMetrics) *TransactionLedger {
	return &TransactionLedger{
		scope:   scope,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// OnAppointmentCompleted records the service revenue of a completed appointment
func (l *TransactionLedger) OnAppointmentCompleted(ctx context.Context, actorID uuid.UUID, appt *scheduling.Appointment) (TransactionResult, error) {
	var result TransactionResult
	err := l.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = l.OnAppointmentCompletedIn(ctx, repos, actorID, appt)
		return err
	})
	return result, err
}

// OnAppointmentCompletedIn is OnAppointmentCompleted inside an existing unit of work.
// It returns ErrMissingPaymentMethod when the tenant has no active default method.
func (l *TransactionLedger) OnAppointmentCompletedIn(ctx context.Context, repos Repositories, actorID uuid.UUID, appt *scheduling.Appointment) (TransactionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction_ledger", "on_appointment_completed")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, appt.TenantID.String(),
		telemetry.SpanAttrAppointmentID, appt.ID.String(),
	)

	if !appt.FinalPrice.IsPositive() {
		return l.skip(ctx, appt.TenantID, finance.SourceAppointment, appt.ID, SkipZeroAmount, nil), nil
	}

	if existing, err := l.findExisting(ctx, repos, appt.TenantID, finance.SourceAppointment, appt.ID); err != nil {
		telemetry.RecordError(span, err)
		return TransactionResult{}, err
	} else if existing != nil {
		return l.skip(ctx, appt.TenantID, finance.SourceAppointment, appt.ID, SkipDuplicate, existing), nil
	}

	method, err := l.defaultPaymentMethod(ctx, repos, appt.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return TransactionResult{}, err
	}
	if method == nil {
		l.logger.Warn("no default payment method, appointment revenue not recorded",
			zap.String("tenant_id", appt.TenantID.String()),
			zap.String("appointment_id", appt.ID.String()),
		)
		return TransactionResult{}, shared.ErrMissingPaymentMethod
	}

	date := l.now()
	if appt.CompletedAt != nil {
		date = *appt.CompletedAt
	}
	methodID := method.ID

	result, err := l.record(ctx, repos, finance.NewTransactionParams{
		TenantID:        appt.TenantID,
		ActorID:         actorID,
		Category:        finance.CategoryServiceRevenue,
		Amount:          appt.FinalPrice,
		Date:            date,
		PaymentMethodID: &methodID,
		Description:     fmt.Sprintf("Appointment %s", appt.ID),
		SourceType:      finance.SourceAppointment,
		SourceID:        appt.ID,
	})
	telemetry.RecordError(span, err)
	return result, err
}

// OnSalePaid records the revenue of a paid sale
func (l *TransactionLedger) OnSalePaid(ctx context.Context, actorID uuid.UUID, sale *pos.Sale) (TransactionResult, error) {
	var result TransactionResult
	err := l.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = l.OnSalePaidIn(ctx, repos, actorID, sale)
		return err
	})
	return result, err
}

// OnSalePaidIn is OnSalePaid inside an existing unit of work.
// The sale's payment method wins over the tenant default; with neither the
// transaction is recorded without one.
func (l *TransactionLedger) OnSalePaidIn(ctx context.Context, repos Repositories, actorID uuid.UUID, sale *pos.Sale) (TransactionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction_ledger", "on_sale_paid")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, sale.TenantID.String(),
		telemetry.SpanAttrSaleID, sale.ID.String(),
	)

	if !sale.Total.IsPositive() {
		return l.skip(ctx, sale.TenantID, finance.SourceSale, sale.ID, SkipZeroAmount, nil), nil
	}

	if existing, err := l.findExisting(ctx, repos, sale.TenantID, finance.SourceSale, sale.ID); err != nil {
		telemetry.RecordError(span, err)
		return TransactionResult{}, err
	} else if existing != nil {
		return l.skip(ctx, sale.TenantID, finance.SourceSale, sale.ID, SkipDuplicate, existing), nil
	}

	methodID := sale.PaymentMethodID
	if methodID == nil {
		method, err := l.defaultPaymentMethod(ctx, repos, sale.TenantID)
		if err != nil {
			telemetry.RecordError(span, err)
			return TransactionResult{}, err
		}
		if method != nil {
			id := method.ID
			methodID = &id
		}
	}

	date := l.now()
	if sale.PaidAt != nil {
		date = *sale.PaidAt
	}

	result, err := l.record(ctx, repos, finance.NewTransactionParams{
		TenantID:        sale.TenantID,
		ActorID:         actorID,
		Category:        finance.CategoryProductSale,
		Amount:          sale.Total,
		Date:            date,
		PaymentMethodID: methodID,
		Description:     sale.Description(),
		SourceType:      finance.SourceSale,
		SourceID:        sale.ID,
	})
	telemetry.RecordError(span, err)
	return result, err
}

// OnStockPurchaseIn records the supplier expense of an inbound purchase movement.
// The movement need not be persisted yet; its id is the idempotency key.
func (l *TransactionLedger) OnStockPurchaseIn(ctx context.Context, repos Repositories, actorID uuid.UUID, product *inventory.Product, movement *inventory.StockMovement) (TransactionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction_ledger", "on_stock_purchase")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, movement.TenantID.String(),
		telemetry.SpanAttrProductID, movement.ProductID.String(),
	)

	amount := movement.TotalCost()
	if !amount.IsPositive() {
		return l.skip(ctx, movement.TenantID, finance.SourceStockMovement, movement.ID, SkipZeroAmount, nil), nil
	}

	if existing, err := l.findExisting(ctx, repos, movement.TenantID, finance.SourceStockMovement, movement.ID); err != nil {
		telemetry.RecordError(span, err)
		return TransactionResult{}, err
	} else if existing != nil {
		return l.skip(ctx, movement.TenantID, finance.SourceStockMovement, movement.ID, SkipDuplicate, existing), nil
	}

	var methodID *uuid.UUID
	method, err := l.defaultPaymentMethod(ctx, repos, movement.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return TransactionResult{}, err
	}
	if method != nil {
		id := method.ID
		methodID = &id
	}

	result, err := l.record(ctx, repos, finance.NewTransactionParams{
		TenantID:        movement.TenantID,
		ActorID:         actorID,
		Category:        finance.CategorySupplierExpense,
		Amount:          amount,
		Date:            movement.CreatedAt,
		PaymentMethodID: methodID,
		Description:     purchaseDescription(product, movement.Quantity),
		SourceType:      finance.SourceStockMovement,
		SourceID:        movement.ID,
	})
	telemetry.RecordError(span, err)
	return result, err
}

func purchaseDescription(product *inventory.Product, quantity decimal.Decimal) string {
	if product == nil {
		return fmt.Sprintf("Stock purchase x%s", quantity.String())
	}
	return fmt.Sprintf("Stock purchase: %s x%s", product.Name, quantity.String())
}

// record inserts the transaction unless a concurrent writer got there first
func (l *TransactionLedger) record(ctx context.Context, repos Repositories, params finance.NewTransactionParams) (TransactionResult, error) {
	txn, err := finance.NewTransaction(params)
	if err != nil {
		return TransactionResult{}, err
	}

	inserted, err := repos.Transactions().CreateIfAbsent(ctx, txn)
	if err != nil {
		l.logger.Error("failed to save transaction",
			zap.String("tenant_id", params.TenantID.String()),
			zap.String("source_type", string(params.SourceType)),
			zap.String("source_id", params.SourceID.String()),
			zap.Error(err),
		)
		return TransactionResult{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	if !inserted {
		existing, err := l.findExisting(ctx, repos, params.TenantID, params.SourceType, params.SourceID)
		if err != nil {
			return TransactionResult{}, err
		}
		return l.skip(ctx, params.TenantID, params.SourceType, params.SourceID, SkipDuplicate, existing), nil
	}

	l.logger.Info("transaction recorded",
		zap.String("tenant_id", txn.TenantID.String()),
		zap.String("transaction_id", txn.ID.String()),
		zap.String("type", string(txn.Type)),
		zap.String("category", string(txn.Category)),
		zap.String("source_type", string(txn.SourceType)),
		zap.String("source_id", txn.SourceID.String()),
		zap.String("amount", txn.Amount.String()),
	)
	l.metrics.RecordDerivation(ctx, txn.TenantID, telemetry.DerivationTransaction, string(OutcomeCreated), "")

	return TransactionResult{Outcome: OutcomeCreated, Transaction: txn}, nil
}

func (l *TransactionLedger) skip(ctx context.Context, tenantID uuid.UUID, sourceType finance.SourceType, sourceID uuid.UUID, reason SkipReason, existing *finance.Transaction) TransactionResult {
	l.logger.Info("transaction derivation skipped",
		zap.String("tenant_id", tenantID.String()),
		zap.String("source_type", string(sourceType)),
		zap.String("source_id", sourceID.String()),
		zap.String("reason", string(reason)),
	)
	l.metrics.RecordDerivation(ctx, tenantID, telemetry.DerivationTransaction, string(OutcomeSkipped), string(reason))
	return TransactionResult{Outcome: OutcomeSkipped, Reason: reason, Transaction: existing}
}

func (l *TransactionLedger) findExisting(ctx context.Context, repos Repositories, tenantID uuid.UUID, sourceType finance.SourceType, sourceID uuid.UUID) (*finance.Transaction, error) {
	existing, err := repos.Transactions().FindBySource(ctx, tenantID, sourceType, sourceID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing transaction: %w", err)
	}
	return existing, nil
}

// defaultPaymentMethod returns nil when the tenant has no usable default
func (l *TransactionLedger) defaultPaymentMethod(ctx context.Context, repos Repositories, tenantID uuid.UUID) (*finance.PaymentMethod, error) {
	method, err := repos.PaymentMethods().FindActiveDefault(ctx, tenantID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load default payment method: %w", err)
	}
	if !method.IsUsableDefault() {
		return nil, nil
	}
	return method, nil
}
