package ledger

import (
	"context"
	"fmt"

	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CommissionLedger turns completed work into at most one pending commission
// per (tenant, source type, source id, service).
type CommissionLedger struct {
	scope    TransactionScope
	resolver *commission.RuleResolver
	logger   *zap.Logger
	metrics  *telemetry.LedgerMetrics
}

// NewCommissionLedger creates a new CommissionLedger
func NewCommissionLedger(scope TransactionScope, logger *zap.Logger, metrics *telemetry.LedgerMetrics) *CommissionLedger {
	return &CommissionLedger{
		scope:    scope,
		resolver: commission.NewRuleResolver(),
		logger:   logger,
		metrics:  metrics,
	}
}

// OnWorkCompleted derives the commission for a completed piece of work
func (l *CommissionLedger) OnWorkCompleted(ctx context.Context, work commission.WorkCompleted) (CommissionResult, error) {
	var result CommissionResult
	err := l.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = l.OnWorkCompletedIn(ctx, repos, work)
		return err
	})
	return result, err
}

// OnWorkCompletedIn is OnWorkCompleted inside an existing unit of work
func (l *CommissionLedger) OnWorkCompletedIn(ctx context.Context, repos Repositories, work commission.WorkCompleted) (CommissionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commission_ledger", "on_work_completed")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, work.TenantID.String(),
		telemetry.SpanAttrSourceType, string(work.SourceType),
		telemetry.SpanAttrSourceID, work.SourceID.String(),
		telemetry.SpanAttrAmount, work.BaseAmount.String(),
	)

	if !work.BaseAmount.IsPositive() {
		err := shared.ErrInvalidAmount.WithMessage("Commission base amount must be positive, got %s", work.BaseAmount.String())
		telemetry.RecordError(span, err)
		return CommissionResult{}, err
	}
	if err := work.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return CommissionResult{}, err
	}

	existing, err := l.findExisting(ctx, repos, work)
	if err != nil {
		telemetry.RecordError(span, err)
		return CommissionResult{}, err
	}
	if existing != nil {
		return l.skip(ctx, work, SkipDuplicate, existing, span), nil
	}

	candidates, err := repos.CommissionRules().FindCandidates(ctx, work.TenantID, work.ProfessionalID, work.ServiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return CommissionResult{}, fmt.Errorf("failed to load commission rules: %w", err)
	}
	for i := range candidates {
		if candidates[i].TenantID != work.TenantID {
			l.logger.Error("commission rule from another tenant ignored",
				zap.String("tenant_id", work.TenantID.String()),
				zap.String("rule_id", candidates[i].ID.String()),
				zap.String("rule_tenant_id", candidates[i].TenantID.String()),
			)
		}
	}

	rule := l.resolver.Resolve(work.TenantID, work.ProfessionalID, work.ServiceID, candidates)
	if rule == nil {
		return l.skip(ctx, work, SkipNoRule, nil, span), nil
	}

	c, err := commission.NewCommission(work, rule)
	if err != nil {
		l.logger.Error("failed to compute commission",
			zap.String("tenant_id", work.TenantID.String()),
			zap.String("rule_id", rule.ID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return CommissionResult{}, err
	}

	inserted, err := repos.Commissions().CreateIfAbsent(ctx, c)
	if err != nil {
		telemetry.RecordError(span, err)
		return CommissionResult{}, fmt.Errorf("failed to save commission: %w", err)
	}
	if !inserted {
		existing, err := l.findExisting(ctx, repos, work)
		if err != nil {
			telemetry.RecordError(span, err)
			return CommissionResult{}, err
		}
		return l.skip(ctx, work, SkipDuplicate, existing, span), nil
	}

	l.logger.Info("commission recorded",
		zap.String("tenant_id", c.TenantID.String()),
		zap.String("commission_id", c.ID.String()),
		zap.String("professional_id", c.ProfessionalID.String()),
		zap.String("source_type", string(c.SourceType)),
		zap.String("source_id", c.SourceID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.String("rule_tier", rule.Tier().String()),
		zap.String("base_amount", c.BaseAmount.String()),
		zap.String("percentage", c.Percentage.String()),
		zap.String("amount", c.Amount.String()),
	)
	l.metrics.RecordDerivation(ctx, c.TenantID, telemetry.DerivationCommission, string(OutcomeCreated), "")
	telemetry.RecordOutcome(span, string(OutcomeCreated), "")

	return CommissionResult{Outcome: OutcomeCreated, Commission: c}, nil
}

func (l *CommissionLedger) skip(ctx context.Context, work commission.WorkCompleted, reason SkipReason, existing *commission.Commission, span trace.Span) CommissionResult {
	log := l.logger.Info
	if reason == SkipNoRule {
		log = l.logger.Warn
	}
	log("commission derivation skipped",
		zap.String("tenant_id", work.TenantID.String()),
		zap.String("professional_id", work.ProfessionalID.String()),
		zap.String("service_id", work.ServiceID.String()),
		zap.String("source_type", string(work.SourceType)),
		zap.String("source_id", work.SourceID.String()),
		zap.String("reason", string(reason)),
	)
	l.metrics.RecordDerivation(ctx, work.TenantID, telemetry.DerivationCommission, string(OutcomeSkipped), string(reason))
	telemetry.RecordOutcome(span, string(OutcomeSkipped), string(reason))
	return CommissionResult{Outcome: OutcomeSkipped, Reason: reason, Commission: existing}
}

func (l *CommissionLedger) findExisting(ctx context.Context, repos Repositories, work commission.WorkCompleted) (*commission.Commission, error) {
	existing, err := repos.Commissions().FindBySource(ctx, work.TenantID, work.SourceType, work.SourceID, work.ServiceID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing commission: %w", err)
	}
	return existing, nil
}
