package logger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	actorIDKey   contextKey = "actor_id"
)

func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored by WithContext, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// tag stores value under key and attaches it to logger as field. Both the
// new context and the enriched logger are returned.
func tag(ctx context.Context, logger *zap.Logger, key contextKey, value any, field zap.Field) (context.Context, *zap.Logger) {
	enriched := logger.With(field)
	return WithContext(context.WithValue(ctx, key, value), enriched), enriched
}

func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, requestIDKey, requestID, zap.String("request_id", requestID))
}

// WithTenant records the tenant the request acts for.
func WithTenant(ctx context.Context, logger *zap.Logger, tenantID uuid.UUID) (context.Context, *zap.Logger) {
	return tag(ctx, logger, tenantIDKey, tenantID, zap.Stringer("tenant_id", tenantID))
}

// WithActor records the user performing the request.
func WithActor(ctx context.Context, logger *zap.Logger, actorID uuid.UUID) (context.Context, *zap.Logger) {
	return tag(ctx, logger, actorIDKey, actorID, zap.Stringer("actor_id", actorID))
}

func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// GetTenantID returns uuid.Nil when no tenant was recorded.
func GetTenantID(ctx context.Context) uuid.UUID {
	tenantID, _ := ctx.Value(tenantIDKey).(uuid.UUID)
	return tenantID
}

// GetActorID returns uuid.Nil when no actor was recorded.
func GetActorID(ctx context.Context) uuid.UUID {
	actorID, _ := ctx.Value(actorIDKey).(uuid.UUID)
	return actorID
}

// WithTraceContext adds trace_id and span_id from the context's span.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// L returns the request logger stored in ctx with trace correlation fields.
//
//	logger.L(ctx).Warn("register close mismatch", zap.String("difference", d))
func L(ctx context.Context) *zap.Logger {
	return WithTraceContext(ctx, FromContext(ctx))
}
