package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	commissionapp "github.com/bizcore/backend/internal/application/commission"
	financeapp "github.com/bizcore/backend/internal/application/finance"
	inventoryapp "github.com/bizcore/backend/internal/application/inventory"
	"github.com/bizcore/backend/internal/application/ledger"
	posapp "github.com/bizcore/backend/internal/application/pos"
	schedulingapp "github.com/bizcore/backend/internal/application/scheduling"
	"github.com/bizcore/backend/internal/infrastructure/cache"
	"github.com/bizcore/backend/internal/infrastructure/config"
	"github.com/bizcore/backend/internal/infrastructure/event"
	"github.com/bizcore/backend/internal/infrastructure/logger"
	"github.com/bizcore/backend/internal/infrastructure/notification"
	"github.com/bizcore/backend/internal/infrastructure/persistence"
	"github.com/bizcore/backend/internal/infrastructure/telemetry"
	"github.com/bizcore/backend/internal/interfaces/http/handler"
	"github.com/bizcore/backend/internal/interfaces/http/middleware"
	"github.com/bizcore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// A missing .env is fine; the environment and config.toml still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer shutdown(log, "telemetry", providers.Shutdown)
	log = providers.Logger(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting bizcore backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("currency", cfg.Ledger.Currency),
	)

	meter := providers.ServiceMeter()
	dbTracing := telemetry.DBTracingConfigFrom(cfg.Telemetry)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      cfg.Log.Level,
		SlowThreshold: dbTracing.SlowQueryThresh,
		Tracing:       telemetry.NewDBTracingPlugin(dbTracing, log),
		Meter:         meter,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	var ledgerMetrics *telemetry.LedgerMetrics
	if meter != nil {
		ledgerMetrics, err = telemetry.NewLedgerMetrics(meter)
		if err != nil {
			log.Warn("Ledger metrics disabled", zap.Error(err))
		}
	}

	// Stock alerts are delivered after the movement commits
	eventBus := event.NewInMemoryEventBus(log)
	stockAlertHandler := inventoryapp.NewStockAlertHandler(log)
	if cfg.Ledger.NotificationsEnabled {
		notifier, err := notification.NewRedisStockAlertNotifier(cfg.Redis,
			notification.WithChannel(cfg.Ledger.LowStockChannel),
			notification.WithLogger(log),
		)
		if err != nil {
			log.Warn("Stock alert notifications disabled", zap.Error(err))
		} else {
			defer func() { _ = notifier.Close() }()
			stockAlertHandler.WithNotifier(notifier)
			log.Info("Stock alerts published", zap.String("channel", notifier.Channel()))
		}

		if cfg.Ledger.AlertCooldown > 0 {
			throttle, closeThrottle, err := cache.NewThrottleStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
			if err != nil {
				log.Warn("Stock alert throttling disabled", zap.Error(err))
			} else {
				defer func() { _ = closeThrottle() }()
				stockAlertHandler.WithThrottle(throttle, cfg.Ledger.AlertCooldown)
			}
		}
	}
	eventBus.Subscribe(stockAlertHandler)
	log.Info("Event handlers registered", zap.Strings("stock_alert_events", stockAlertHandler.EventTypes()))

	scope := persistence.NewGormTransactionScope(db.DB)
	repos := persistence.NewRepositorySet(db.DB)

	transactionLedger := ledger.NewTransactionLedger(scope, log, ledgerMetrics)
	commissionLedger := ledger.NewCommissionLedger(scope, log, ledgerMetrics)
	stockLedger := ledger.NewStockLedger(scope, transactionLedger, eventBus, log, ledgerMetrics)
	saleFinalization := ledger.NewSaleFinalization(scope, stockLedger, commissionLedger, transactionLedger, log)
	appointmentCompletion := ledger.NewAppointmentCompletion(scope, commissionLedger, transactionLedger, log)
	registerReconciler := ledger.NewCashRegisterReconciler(scope, log)

	inventoryService := inventoryapp.NewInventoryService(stockLedger, repos.ProductRepo, repos.StockMovementRepo, log)
	ruleService := commissionapp.NewRuleService(scope, log)
	payoutService := commissionapp.NewPayoutService(scope, log)
	transactionService := financeapp.NewTransactionService(scope, log)
	saleService := posapp.NewSaleService(scope, saleFinalization, registerReconciler, log)
	appointmentService := schedulingapp.NewAppointmentService(scope, appointmentCompletion, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     providers.TracingEnabled(),
		},
		Meter: meter,
	}, router.Handlers{
		Inventory:   handler.NewInventoryHandler(inventoryService),
		Commission:  handler.NewCommissionHandler(ruleService, payoutService),
		Finance:     handler.NewFinanceHandler(transactionService),
		Sale:        handler.NewSaleHandler(saleService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		System:      handler.NewSystemHandler(cfg.App.Name, version, db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shutdown runs fn with its own deadline
func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
