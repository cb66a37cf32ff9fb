package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewLedgerMetrics(nil)

	require.Error(t, err)
	assert.Nil(t, m)
	assert.Equal(t, "NewLedgerMetrics: meter cannot be nil", err.Error())
}

func TestLedgerMetrics_NilReceiver(t *testing.T) {
	var m *telemetry.LedgerMetrics
	ctx := context.Background()

	m.RecordDerivation(ctx, uuid.New(), telemetry.DerivationCommission, "CREATED", "")
	m.RecordMovement(ctx, uuid.New(), "IN", "PURCHASE")
	m.RecordStockRejection(ctx, uuid.New())
	m.RecordDuration(ctx, "apply_movement", time.Millisecond)
}

func TestLedgerMetrics_Noop(t *testing.T) {
	m, err := telemetry.NewLedgerMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	m.RecordDerivation(context.Background(), uuid.New(), telemetry.DerivationTransaction, "SKIPPED", "DUPLICATE")
}

func TestLedgerMetrics_Records(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	m.RecordDerivation(ctx, tenantID, telemetry.DerivationCommission, "CREATED", "")
	m.RecordDerivation(ctx, tenantID, telemetry.DerivationCommission, "SKIPPED", "DUPLICATE")
	m.RecordDerivation(ctx, tenantID, telemetry.DerivationCommission, "SKIPPED", "DUPLICATE")
	m.RecordMovement(ctx, tenantID, "OUT", "SALE")
	m.RecordStockRejection(ctx, tenantID)
	m.RecordDuration(ctx, "apply_movement", 3*time.Millisecond)

	metrics := collect(t, reader)

	derivations, ok := metrics["bizcore_ledger_derivations_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range derivations.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		counts[outcome.AsString()] += dp.Value
	}
	assert.Equal(t, int64(1), counts["CREATED"])
	assert.Equal(t, int64(2), counts["SKIPPED"])

	rejections, ok := metrics["bizcore_stock_rejections_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rejections.DataPoints, 1)
	assert.Equal(t, int64(1), rejections.DataPoints[0].Value)

	duration, ok := metrics["bizcore_ledger_operation_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(1), duration.DataPoints[0].Count)

	assert.Contains(t, metrics, "bizcore_stock_movements_total")
}
