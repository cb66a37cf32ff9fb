package router

import (
	"net/http"

	"github.com/bizcore/backend/internal/infrastructure/config"
	"github.com/bizcore/backend/internal/infrastructure/logger"
	"github.com/bizcore/backend/internal/interfaces/http/dto"
	"github.com/bizcore/backend/internal/interfaces/http/handler"
	"github.com/bizcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// defaultMaxBodySize applies when the configuration leaves the limit unset
const defaultMaxBodySize = 1 << 20

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Inventory   *handler.InventoryHandler
	Commission  *handler.CommissionHandler
	Finance     *handler.FinanceHandler
	Sale        *handler.SaleHandler
	Appointment *handler.AppointmentHandler
	System      *handler.SystemHandler
}

// EngineConfig carries what NewEngine needs besides the handlers
type EngineConfig struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	// Meter records HTTP server metrics; nil disables them
	Meter metric.Meter
}

// NewEngine builds the gin engine with the middleware chain and every API
// route registered under /api/v1.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	maxBody := cfg.HTTP.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	engine.Use(
		logger.Recovery(log),
		middleware.Tracing(cfg.Tracing),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.BodyLimit(maxBody),
		middleware.HTTPMetrics(cfg.Meter),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	identity := middleware.DefaultIdentityConfig()
	identity.SkipPaths = append(identity.SkipPaths, "/api/v1/system")
	identity.Logger = log

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Identity(identity), middleware.TracingAttributeInjector())
	RegisterAPIRoutes(r, h)
	r.Setup()

	return engine
}

// RegisterAPIRoutes registers the domain route groups of every non-nil handler
func RegisterAPIRoutes(r *Router, h Handlers) {
	if h.Inventory != nil {
		inventoryRoutes := NewDomainGroup("inventory", "")
		inventoryRoutes.POST("/stock/movements", h.Inventory.RecordMovement)
		inventoryRoutes.GET("/products/low-stock", h.Inventory.ListLowStock)
		inventoryRoutes.GET("/products/:id", h.Inventory.GetProduct)
		inventoryRoutes.GET("/products/:id/movements", h.Inventory.ListMovements)
		r.Register(inventoryRoutes)
	}

	if h.Commission != nil {
		ruleRoutes := NewDomainGroup("commission-rules", "/commission-rules")
		ruleRoutes.GET("", h.Commission.ListRules)
		ruleRoutes.POST("", h.Commission.CreateRule)
		ruleRoutes.GET("/preview", h.Commission.PreviewRule)
		ruleRoutes.GET("/:id", h.Commission.GetRule)
		ruleRoutes.PUT("/:id", h.Commission.UpdateRule)
		ruleRoutes.POST("/:id/activate", h.Commission.ActivateRule)
		ruleRoutes.POST("/:id/deactivate", h.Commission.DeactivateRule)

		commissionRoutes := NewDomainGroup("commissions", "/commissions")
		commissionRoutes.GET("", h.Commission.ListCommissions)
		commissionRoutes.POST("/:id/pay", h.Commission.PayCommission)
		commissionRoutes.POST("/:id/cancel", h.Commission.CancelCommission)

		r.Register(ruleRoutes).Register(commissionRoutes)
	}

	if h.Finance != nil {
		financeRoutes := NewDomainGroup("finance", "")
		financeRoutes.GET("/transactions", h.Finance.ListTransactions)
		financeRoutes.GET("/transactions/by-source/:source_type/:source_id", h.Finance.GetBySource)
		financeRoutes.POST("/payment-methods", h.Finance.CreatePaymentMethod)
		financeRoutes.POST("/payment-methods/:id/deactivate", h.Finance.DeactivatePaymentMethod)
		r.Register(financeRoutes)
	}

	if h.Sale != nil {
		saleRoutes := NewDomainGroup("sales", "/sales")
		saleRoutes.POST("", h.Sale.CreateSale)
		saleRoutes.GET("/:id", h.Sale.GetSale)
		saleRoutes.POST("/:id/pay", h.Sale.PaySale)
		saleRoutes.POST("/:id/cancel", h.Sale.CancelSale)

		registerRoutes := NewDomainGroup("cash-registers", "/cash-registers")
		registerRoutes.POST("", h.Sale.OpenRegister)
		registerRoutes.GET("/:id", h.Sale.GetRegister)
		registerRoutes.POST("/:id/close", h.Sale.CloseRegister)

		r.Register(saleRoutes).Register(registerRoutes)
	}

	if h.Appointment != nil {
		appointmentRoutes := NewDomainGroup("appointments", "/appointments")
		appointmentRoutes.POST("", h.Appointment.Book)
		appointmentRoutes.GET("/:id", h.Appointment.Get)
		appointmentRoutes.POST("/:id/confirm", h.Appointment.Confirm)
		appointmentRoutes.POST("/:id/start", h.Appointment.Start)
		appointmentRoutes.POST("/:id/cancel", h.Appointment.Cancel)
		appointmentRoutes.POST("/:id/no-show", h.Appointment.NoShow)
		appointmentRoutes.POST("/:id/complete", h.Appointment.Complete)
		r.Register(appointmentRoutes)
	}

	if h.System != nil {
		systemRoutes := NewDomainGroup("system", "/system")
		systemRoutes.GET("/info", h.System.GetSystemInfo)
		systemRoutes.GET("/health", h.System.Health)
		r.Register(systemRoutes)
	}
}
