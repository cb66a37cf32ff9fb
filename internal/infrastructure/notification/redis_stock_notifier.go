package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appinventory "github.com/bizcore/backend/internal/application/inventory"
	"github.com/bizcore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultStockAlertChannel is used when no channel is configured
const DefaultStockAlertChannel = "bizcore:stock-alerts"

// Publisher is the part of a Redis client the notifier needs
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisStockAlertNotifier publishes stock alerts as JSON on a Redis pub/sub
// channel
type RedisStockAlertNotifier struct {
	client     Publisher
	closer     func() error
	channel    string
	logger     *zap.Logger
	sendTimeout time.Duration
}

// Option configures a RedisStockAlertNotifier
type Option func(*RedisStockAlertNotifier)

// WithChannel sets the pub/sub channel
func WithChannel(channel string) Option {
	return func(n *RedisStockAlertNotifier) {
		if channel != "" {
			n.channel = channel
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(n *RedisStockAlertNotifier) {
		n.logger = logger
	}
}

// WithSendTimeout bounds each publish
func WithSendTimeout(d time.Duration) Option {
	return func(n *RedisStockAlertNotifier) {
		n.sendTimeout = d
	}
}

// NewRedisStockAlertNotifier connects to Redis and returns a notifier that
// owns the connection
func NewRedisStockAlertNotifier(cfg config.RedisConfig, opts ...Option) (*RedisStockAlertNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	n := NewRedisStockAlertNotifierWithClient(client, opts...)
	n.closer = client.Close
	return n, nil
}

// NewRedisStockAlertNotifierWithClient creates a notifier over an existing
// client. The caller keeps ownership of the client.
func NewRedisStockAlertNotifierWithClient(client Publisher, opts ...Option) *RedisStockAlertNotifier {
	n := &RedisStockAlertNotifier{
		client:      client,
		channel:     DefaultStockAlertChannel,
		logger:      zap.NewNop(),
		sendTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SendAlert publishes the alert
func (n *RedisStockAlertNotifier) SendAlert(ctx context.Context, alert appinventory.StockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal stock alert: %w", err)
	}

	if n.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.sendTimeout)
		defer cancel()
	}

	receivers, err := n.client.Publish(ctx, n.channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish stock alert: %w", err)
	}

	n.logger.Debug("published stock alert",
		zap.String("channel", n.channel),
		zap.String("tenant_id", alert.TenantID),
		zap.String("product_id", alert.ProductID),
		zap.String("alert_type", alert.AlertType),
		zap.Int64("receivers", receivers),
	)
	return nil
}

// Channel returns the pub/sub channel alerts go to
func (n *RedisStockAlertNotifier) Channel() string {
	return n.channel
}

// Close releases the connection if the notifier opened it
func (n *RedisStockAlertNotifier) Close() error {
	if n.closer == nil {
		return nil
	}
	return n.closer()
}

var _ appinventory.StockAlertNotifier = (*RedisStockAlertNotifier)(nil)
