package middleware

import (
	"time"

	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests no route matched, so 404 probes share one
// series instead of one per path.
const unmatchedRoute = "unknown"

type httpInstruments struct {
	requests *telemetry.Counter
	latency  *telemetry.Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := telemetry.NewCounter(meter,
		"http_server_request_total", "HTTP requests served", "{request}")
	if err != nil {
		return nil, err
	}
	latency, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &httpInstruments{requests: requests, latency: latency, inFlight: inFlight}, nil
}

func (m *httpInstruments) handle(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	m.inFlight.Add(ctx, 1)
	defer m.inFlight.Add(ctx, -1)

	c.Next()

	route := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(routeOf(c)),
	}
	m.latency.RecordDuration(ctx, time.Since(start), route...)

	counted := append(route, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
	if tenantID, ok := GetTenantID(c); ok {
		counted = append(counted, telemetry.AttrTenantID.String(tenantID.String()))
	}
	m.requests.Inc(ctx, counted...)
}

// HTTPMetrics counts requests by method, route pattern, status and tenant,
// and records latency by method and route. Without a meter, or when the
// instruments cannot be created, it only calls the next handler.
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	if meter != nil {
		if m, err := newHTTPInstruments(meter); err == nil {
			return m.handle
		}
	}
	return func(c *gin.Context) { c.Next() }
}

// routeOf returns the matched pattern, such as /api/v1/sales/:id/pay.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
