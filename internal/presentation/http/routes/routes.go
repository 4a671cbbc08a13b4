package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/primake/primake-api/internal/config"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/internal/presentation/http/handler"
	"github.com/primake/primake-api/internal/presentation/http/middleware"
	"github.com/primake/primake-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	Customer     *handler.CustomerHandler
	Sale         *handler.SaleHandler
	Delivery     *handler.DeliveryHandler
	CashRegister *handler.CashRegisterHandler
	Goal         *handler.GoalHandler
	Dashboard    *handler.DashboardHandler
	Settings     *handler.SettingsHandler
	Printer      *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	rateLimiter := middleware.NewUserRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"rate_limiter": rateLimiter.Stats(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return rl
}

func registerAuthRoutes(public *gin.RouterGroup, h *Handlers) {
	auth := public.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", h.Dashboard.GetStats)

	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequireRole(middleware.AdminsOnly...), h.Settings.UpdateSettings)

	registerProductRoutes(protected, h)
	registerBundleRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerDeliveryRoutes(protected, h)
	registerCashRegisterRoutes(protected, h)
	registerGoalRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	stock := middleware.RequireRole(middleware.Stockroom...)
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/sku/:sku", h.Product.GetBySKU)
		products.GET("/export", stock, h.Product.Export)
		products.POST("/import", stock, h.Product.Import)
		products.POST("", stock, h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", stock, h.Product.Update)
		products.POST("/:id/deactivate", stock, h.Product.Deactivate)
		products.POST("/:id/reactivate", stock, h.Product.Reactivate)
		products.POST("/:id/stock", stock, h.Product.AdjustStock)
		products.GET("/:id/variations", h.Product.ListVariations)
		products.POST("/:id/variations", stock, h.Product.AddVariation)
		products.DELETE("/:id/variations/:variation_id", stock, h.Product.DeleteVariation)
	}
}

func registerBundleRoutes(protected *gin.RouterGroup, h *Handlers) {
	bundles := protected.Group("/bundles")
	stock := middleware.RequireRole(middleware.Stockroom...)
	{
		bundles.GET("", h.Product.ListBundles)
		bundles.POST("", stock, h.Product.CreateBundle)
		bundles.GET("/:id", h.Product.GetBundle)
		bundles.PUT("/:id", stock, h.Product.UpdateBundle)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequireRole(middleware.Checkout...))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/phone/:phone", h.Customer.GetByPhone)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.POST("/:id/deactivate", h.Customer.Deactivate)
		customers.POST("/:id/reactivate", h.Customer.Reactivate)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	sales.Use(middleware.RequireRole(middleware.Checkout...))
	{
		sales.GET("", h.Sale.List)
		// a retried checkout must not charge twice
		sales.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:     deps.IdempotencyRepo,
			Log:      deps.Log,
			Required: true,
		}), h.Sale.Complete)
		sales.GET("/today", h.Sale.Today)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.Update)
		sales.GET("/:id/receipt", h.Printer.Receipt)
		sales.GET("/:id/receipt.html", h.Printer.ReceiptHTML)
	}
}

func registerDeliveryRoutes(protected *gin.RouterGroup, h *Handlers) {
	deliveries := protected.Group("/deliveries")
	deliveries.Use(middleware.RequireRole(middleware.Dispatch...))
	managers := middleware.RequireRole(middleware.Managers...)
	{
		deliveries.GET("", h.Delivery.List)
		deliveries.POST("", h.Delivery.Create)
		deliveries.GET("/payouts", managers, h.Delivery.Payouts)
		deliveries.GET("/payouts/deliveries", managers, h.Delivery.PayoutDeliveries)
		deliveries.POST("/payouts/pay", managers, h.Delivery.MarkPaid)
		deliveries.GET("/:id", h.Delivery.Get)
		deliveries.PUT("/:id", h.Delivery.Update)
		deliveries.DELETE("/:id", managers, h.Delivery.Delete)
		deliveries.GET("/:id/whatsapp", h.Delivery.WhatsApp)
	}
	protected.GET("/motoboys", middleware.RequireRole(middleware.Dispatch...), h.User.ListMotoboys)
}

func registerCashRegisterRoutes(protected *gin.RouterGroup, h *Handlers) {
	cash := protected.Group("/cash-register")
	cash.Use(middleware.RequireRole(middleware.Checkout...))
	{
		cash.GET("", h.CashRegister.List)
		cash.GET("/current", h.CashRegister.Current)
		cash.POST("/open", h.CashRegister.Open)
		cash.POST("/movements", h.CashRegister.AddMovement)
		cash.POST("/close", h.CashRegister.Close)
		cash.GET("/:id", h.CashRegister.Get)
	}
}

func registerGoalRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/commission", h.Goal.Commission)

	goals := protected.Group("/goals")
	goals.Use(middleware.RequireRole(middleware.Checkout...))
	{
		goals.GET("", h.Goal.List)
		goals.GET("/progress", h.Goal.Progress)
		goals.PUT("", middleware.RequireRole(middleware.Managers...), h.Goal.Save)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(middleware.AdminsOnly...))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.PUT("/:id/active", h.User.SetActive)
		users.DELETE("/:id", h.User.Delete)
	}
	protected.GET("/roles", middleware.RequireRole(middleware.AdminsOnly...), h.User.ListRoles)
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequireRole(middleware.Checkout...))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
