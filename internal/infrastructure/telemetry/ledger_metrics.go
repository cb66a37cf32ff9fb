package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
)

// Derivation names used as metric labels
const (
	DerivationCommission  = "commission"
	DerivationTransaction = "transaction"
	DerivationMovement    = "stock_movement"
)

// LedgerMetrics counts what the ledgers derive and reject.
// All methods are safe to call on a nil *LedgerMetrics.
type LedgerMetrics struct {
	derivations     *Counter
	movements       *Counter
	stockRejections *Counter
	duration        *Histogram
}

// NewLedgerMetrics creates the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &LedgerMetrics{}
	var err error

	m.derivations, err = NewCounter(meter,
		"bizcore_ledger_derivations_total",
		"Derived ledger records by outcome",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	m.movements, err = NewCounter(meter,
		"bizcore_stock_movements_total",
		"Stock movements applied",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	m.stockRejections, err = NewCounter(meter,
		"bizcore_stock_rejections_total",
		"Withdrawals rejected for insufficient stock",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "bizcore_ledger_operation_duration_seconds",
		Description: "Duration of ledger units of work",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDerivation counts one derivation attempt. reason is empty for created records.
func (m *LedgerMetrics) RecordDerivation(ctx context.Context, tenantID uuid.UUID, derivation, outcome, reason string) {
	if m == nil {
		return
	}
	m.derivations.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDerivation.String(derivation),
		AttrOutcome.String(outcome),
		AttrReason.String(reason),
	)
}

// RecordMovement counts an applied stock movement
func (m *LedgerMetrics) RecordMovement(ctx context.Context, tenantID uuid.UUID, direction, reason string) {
	if m == nil {
		return
	}
	m.movements.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDirection.String(direction),
		AttrMovement.String(reason),
	)
}

// RecordStockRejection counts a withdrawal refused for insufficient stock
func (m *LedgerMetrics) RecordStockRejection(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.stockRejections.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordDuration records how long a ledger operation took
func (m *LedgerMetrics) RecordDuration(ctx context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.RecordDuration(ctx, d, AttrOperation.String(operation))
}

// MetricsError represents an error in metrics operations.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewLedgerMetrics", Err: "meter cannot be nil"}
