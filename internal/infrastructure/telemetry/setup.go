package telemetry

import (
	"context"
	"errors"

	"github.com/bizcore/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Providers bundles the three signal pipelines of one process.
type Providers struct {
	Tracer *TracerProvider
	Meter  *MeterProvider
	Logs   *LoggerProvider

	serviceName string
}

// Setup builds every pipeline from cfg. Metrics and logs additionally need
// their own switch on top of the master Enabled flag. On error, pipelines
// that were already started are stopped again.
func Setup(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*Providers, error) {
	p := &Providers{serviceName: cfg.ServiceName}

	var err error
	p.Tracer, err = NewTracerProvider(ctx, Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       cfg.ServiceName,
		Insecure:          cfg.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	p.Meter, err = NewMeterProvider(ctx, MetricsConfig{
		Enabled:           cfg.Enabled && cfg.MetricsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ExportInterval:    cfg.MetricsInterval,
		ServiceName:       cfg.ServiceName,
		Insecure:          cfg.Insecure,
	}, log)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	p.Logs, err = NewLoggerProvider(ctx, LogsConfig{
		Enabled:           cfg.Enabled && cfg.LogsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ServiceName:       cfg.ServiceName,
		Insecure:          cfg.Insecure,
	}, log)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	return p, nil
}

// Logger tees base into the log pipeline at level and above.
func (p *Providers) Logger(base *zap.Logger, level zapcore.Level) *zap.Logger {
	return BridgeLogger(base, p.Logs, p.serviceName, level)
}

// ServiceMeter returns the service's meter, or nil when metrics are off.
func (p *Providers) ServiceMeter() metric.Meter {
	if p.Meter == nil || !p.Meter.IsEnabled() {
		return nil
	}
	return p.Meter.Meter(p.serviceName)
}

// TracingEnabled reports whether spans are exported.
func (p *Providers) TracingEnabled() bool {
	return p.Tracer != nil && p.Tracer.IsEnabled()
}

// Shutdown stops the pipelines in reverse start order.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// DBTracingConfigFrom derives the gorm instrumentation settings.
func DBTracingConfigFrom(cfg config.TelemetryConfig) DBTracingConfig {
	dbc := DefaultDBTracingConfig()
	dbc.Enabled = cfg.Enabled && cfg.DBTraceEnabled
	dbc.LogFullSQL = cfg.DBLogFullSQL
	if cfg.DBSlowQueryThresh > 0 {
		dbc.SlowQueryThresh = cfg.DBSlowQueryThresh
	}
	return dbc
}
