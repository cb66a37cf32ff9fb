package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer behind every ledger span
const TracerName = "bizcore-backend"

// Span attribute keys used by the ledgers.
const (
	SpanAttrTenantID   = "tenant_id"
	SpanAttrActorID    = "actor_id"
	SpanAttrSourceType = "source_type"
	SpanAttrSourceID   = "source_id"
	SpanAttrOutcome    = "outcome"
	SpanAttrReason     = "skip_reason"
	SpanAttrAmount     = "amount"

	SpanAttrProductID = "product_id"
	SpanAttrQuantity  = "quantity"
	SpanAttrDirection = "direction"

	SpanAttrRegisterID    = "register_id"
	SpanAttrSaleID        = "sale_id"
	SpanAttrAppointmentID = "appointment_id"
)

// StartServiceSpan starts an internal span named "<component>.<operation>",
// e.g. "stock_ledger.apply_movement". The caller ends it.
func StartServiceSpan(ctx context.Context, component, operation string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append([]trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}, opts...)
	return otel.Tracer(TracerName).Start(ctx, component+"."+operation, opts...)
}

// SetAttributes sets alternating key/value pairs on span. Pairs whose key is
// not a string are dropped, as is a trailing key without a value.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(pairs(keyValues)...)
}

// RecordError records err on span and marks the span failed. A nil err is a no-op.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordOutcome tags span with a derivation outcome. A non-empty skip reason
// is also added as a "derivation_skipped" event.
func RecordOutcome(span trace.Span, outcome, reason string) {
	if span == nil {
		return
	}
	if reason == "" {
		span.SetAttributes(attribute.String(SpanAttrOutcome, outcome))
		return
	}
	reasonAttr := attribute.String(SpanAttrReason, reason)
	span.SetAttributes(attribute.String(SpanAttrOutcome, outcome), reasonAttr)
	span.AddEvent("derivation_skipped", trace.WithAttributes(reasonAttr))
}

func pairs(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		if key, ok := keyValues[i].(string); ok {
			attrs = append(attrs, toAttribute(key, keyValues[i+1]))
		}
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		// uuid.UUID, decimal.Decimal
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
