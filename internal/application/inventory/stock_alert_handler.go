package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Alert types carried by StockAlert
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// StockAlert is the message sent to notification channels
type StockAlert struct {
	TenantID     string    `json:"tenant_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SKU          string    `json:"sku,omitempty"`
	AlertType    string    `json:"alert_type"`
	CurrentStock string    `json:"current_stock,omitempty"`
	MinimumStock string    `json:"minimum_stock,omitempty"`
	EventID      string    `json:"event_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// StockAlertNotifier delivers stock alerts to an outside channel
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// AlertThrottle holds a key for a while; TryAcquire reports whether the
// caller got it
type AlertThrottle interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// StockAlertHandler turns low-stock and out-of-stock events into alerts.
// It runs after the movement has committed; a failed delivery is logged
// and never reported back to the movement.
type StockAlertHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
	throttle AlertThrottle
	cooldown time.Duration
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockAlertHandler) WithNotifier(notifier StockAlertNotifier) *StockAlertHandler {
	h.notifier = notifier
	return h
}

// WithThrottle sends at most one alert per tenant, product and alert type
// within cooldown. A throttle failure lets the alert through.
func (h *StockAlertHandler) WithThrottle(throttle AlertThrottle, cooldown time.Duration) *StockAlertHandler {
	if cooldown > 0 {
		h.throttle = throttle
		h.cooldown = cooldown
	}
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold, inventory.EventTypeOutOfStock}
}

// Handle processes a stock event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alert, err := alertFor(event)
	if err != nil {
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	if !h.acquire(ctx, alert) {
		h.logger.Debug("stock alert throttled",
			zap.String("product_id", alert.ProductID),
			zap.String("alert_type", alert.AlertType),
		)
		return nil
	}

	h.logger.Warn("stock alert",
		zap.String("tenant_id", alert.TenantID),
		zap.String("product_id", alert.ProductID),
		zap.String("alert_type", alert.AlertType),
		zap.String("current_stock", alert.CurrentStock),
		zap.String("minimum_stock", alert.MinimumStock),
	)

	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("product_id", alert.ProductID),
			zap.String("alert_type", alert.AlertType),
			zap.Error(err),
		)
		return nil
	}
	h.logger.Debug("stock alert sent",
		zap.String("product_id", alert.ProductID),
		zap.String("alert_type", alert.AlertType),
	)
	return nil
}

func (h *StockAlertHandler) acquire(ctx context.Context, alert StockAlert) bool {
	if h.throttle == nil {
		return true
	}
	key := alert.TenantID + ":" + alert.ProductID + ":" + alert.AlertType
	ok, err := h.throttle.TryAcquire(ctx, key, h.cooldown)
	if err != nil {
		h.logger.Warn("stock alert throttle unavailable", zap.Error(err))
		return true
	}
	return ok
}

func alertFor(event shared.DomainEvent) (StockAlert, error) {
	alert := StockAlert{
		TenantID:   event.TenantID().String(),
		EventID:    event.EventID().String(),
		OccurredAt: event.OccurredAt(),
	}
	switch e := event.(type) {
	case *inventory.StockBelowThresholdEvent:
		alert.ProductID = e.ProductID.String()
		alert.ProductName = e.ProductName
		alert.SKU = e.SKU
		alert.AlertType = AlertTypeLowStock
		alert.CurrentStock = e.CurrentStock.String()
		alert.MinimumStock = e.MinimumStock.String()
	case *inventory.OutOfStockEvent:
		alert.ProductID = e.ProductID.String()
		alert.ProductName = e.ProductName
		alert.SKU = e.SKU
		alert.AlertType = AlertTypeOutOfStock
		alert.CurrentStock = "0"
	default:
		return StockAlert{}, fmt.Errorf("unexpected event type %s", event.EventType())
	}
	return alert, nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
