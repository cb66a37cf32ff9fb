package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_DefaultsToNop(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestRequestScopedFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	tenantID := uuid.New()
	actorID := uuid.New()

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithTenant(ctx, FromContext(ctx), tenantID)
	ctx, _ = WithActor(ctx, FromContext(ctx), actorID)

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, tenantID, GetTenantID(ctx))
	assert.Equal(t, actorID, GetActorID(ctx))

	L(ctx).Info("sale finalized")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, actorID.String(), fields["actor_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Equal(t, uuid.Nil, GetTenantID(ctx))
	assert.Equal(t, uuid.Nil, GetActorID(ctx))
}

func TestL_AddsTraceCorrelation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()

	L(ctx).Info("traced")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}
