package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementRequest asks for a stock change on one product
type MovementRequest struct {
	ProductID  uuid.UUID
	Direction  inventory.Direction
	Reason     inventory.Reason
	Quantity   decimal.Decimal
	UnitCost   *decimal.Decimal
	SourceType string
	SourceID   *uuid.UUID
	Notes      string
}

func (r MovementRequest) hasSource() bool {
	return r.SourceType != "" && r.SourceID != nil
}

// StockLedger is the only writer of Product.StockQuantity. Every change is
// paired with an append-only StockMovement in the same transaction.
type StockLedger struct {
	scope        TransactionScope
	transactions *TransactionLedger
	publisher    shared.EventPublisher
	logger       *zap.Logger
	metrics      *telemetry.LedgerMetrics
}

// NewStockLedger creates a new StockLedger. publisher may be nil.
func NewStockLedger(
	scope TransactionScope,
	transactions *TransactionLedger,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	metrics *telemetry.LedgerMetrics,
) *StockLedger {
	return &StockLedger{
		scope:        scope,
		transactions: transactions,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
	}
}

// ApplyMovement applies req in its own unit of work and publishes the
// resulting stock alerts once it has committed.
func (l *StockLedger) ApplyMovement(ctx context.Context, tenantID, actorID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	start := time.Now()
	defer func() { l.metrics.RecordDuration(ctx, "apply_movement", time.Since(start)) }()

	var result *MovementResult
	err := l.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = l.ApplyMovementIn(ctx, repos, tenantID, actorID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.publish(ctx, result.events)
	return result, nil
}

// ApplyMovementIn applies req inside an existing unit of work. Events are
// left on the result for the caller to publish after commit.
func (l *StockLedger) ApplyMovementIn(ctx context.Context, repos Repositories, tenantID, actorID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_ledger", "apply_movement")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrActorID, actorID.String(),
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrDirection, string(req.Direction),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
	)

	// The row lock serializes writers of this product, including retries of
	// the same sourced request, so the source check below sees committed work.
	product, err := repos.Products().FindByIDForUpdate(ctx, tenantID, req.ProductID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if req.hasSource() {
		existing, err := repos.StockMovements().FindBySource(ctx, tenantID, req.SourceType, *req.SourceID)
		if err != nil && !shared.IsNotFound(err) {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to check existing movement: %w", err)
		}
		if existing != nil {
			l.logger.Info("stock movement already recorded for source, skipping",
				zap.String("tenant_id", tenantID.String()),
				zap.String("product_id", req.ProductID.String()),
				zap.String("source_type", req.SourceType),
				zap.String("source_id", req.SourceID.String()),
				zap.String("movement_id", existing.ID.String()),
			)
			l.metrics.RecordDerivation(ctx, tenantID, telemetry.DerivationMovement, string(OutcomeSkipped), string(SkipDuplicate))
			telemetry.RecordOutcome(span, string(OutcomeSkipped), string(SkipDuplicate))
			return &MovementResult{Outcome: OutcomeSkipped, Reason: SkipDuplicate, Movement: existing, Product: product}, nil
		}
	}

	movement, err := product.ApplyMovement(actorID, inventory.MovementSpec{
		Direction:  req.Direction,
		Reason:     req.Reason,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		SourceType: req.SourceType,
		SourceID:   req.SourceID,
		Notes:      req.Notes,
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			l.logger.Warn("stock withdrawal rejected",
				zap.String("tenant_id", tenantID.String()),
				zap.String("product_id", product.ID.String()),
				zap.String("available", product.StockQuantity.String()),
				zap.String("requested", req.Quantity.String()),
			)
			l.metrics.RecordStockRejection(ctx, tenantID)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &MovementResult{Outcome: OutcomeCreated, Movement: movement, Product: product}

	if movement.IsPurchase() {
		purchase, err := l.transactions.OnStockPurchaseIn(ctx, repos, actorID, product, movement)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if purchase.Transaction != nil {
			movement.LinkTransaction(purchase.Transaction.ID)
		}
		result.Purchase = &purchase
	}

	if err := repos.StockMovements().Create(ctx, movement); err != nil {
		l.logger.Error("failed to save stock movement",
			zap.String("tenant_id", tenantID.String()),
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save stock movement: %w", err)
	}
	if err := repos.Products().SaveWithLock(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save product stock: %w", err)
	}

	result.events = product.PullEvents()

	l.logger.Info("stock movement applied",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("movement_id", movement.ID.String()),
		zap.String("direction", string(movement.Direction)),
		zap.String("reason", string(movement.Reason)),
		zap.String("quantity", movement.Quantity.String()),
		zap.String("stock_before", movement.StockBefore.String()),
		zap.String("stock_after", movement.StockAfter.String()),
		zap.Int("events", len(result.events)),
	)
	l.metrics.RecordMovement(ctx, tenantID, string(movement.Direction), string(movement.Reason))
	l.metrics.RecordDerivation(ctx, tenantID, telemetry.DerivationMovement, string(OutcomeCreated), "")
	telemetry.RecordOutcome(span, string(OutcomeCreated), "")

	return result, nil
}

// publish hands committed events to the bus. Failures are logged only: the
// stock change itself is already durable.
func (l *StockLedger) publish(ctx context.Context, events []shared.DomainEvent) {
	if l.publisher == nil || len(events) == 0 {
		return
	}
	if err := l.publisher.Publish(ctx, events...); err != nil {
		l.logger.Error("failed to publish stock events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
