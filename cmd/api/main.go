package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/config"
	"github.com/primake/primake-api/internal/domain/checkout"
	"github.com/primake/primake-api/internal/domain/commission"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/internal/infrastructure/database"
	"github.com/primake/primake-api/internal/infrastructure/repository"
	"github.com/primake/primake-api/internal/presentation/http/handler"
	"github.com/primake/primake-api/internal/presentation/http/routes"
	"github.com/primake/primake-api/pkg/cache"
	"github.com/primake/primake-api/pkg/events"
	"github.com/primake/primake-api/pkg/logger"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/printer"
	"github.com/primake/primake-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, envErr := config.Load()

	appLogger := logger.New(logger.Config{
		Development: !cfg.App.IsProduction(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	defer func() { _ = appLogger.Sync() }()

	if envErr != nil {
		appLogger.Warn(".env file not found, using environment variables", zap.Error(envErr))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, appLogger); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(db, cfg.Admin, appLogger); err != nil {
		appLogger.Warn("failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Infrastructure adapters fall back to in-process versions when not configured
	productCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name)
	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	thermalPrinter, err := printer.New(printer.Options{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		appLogger.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	checkoutRules := checkout.Rules{
		CreditSurchargePercent: cfg.Sales.CreditSurchargePercent,
		ToleranceCents:         cfg.Sales.PaymentToleranceCents,
		MaxInstallments:        cfg.Sales.MaxInstallments,
	}
	commissionRules := commission.Rules{
		Threshold:    money.FromFloat(cfg.Sales.CommissionThreshold),
		LowRate:      cfg.Sales.CommissionLowRate,
		HighRate:     cfg.Sales.CommissionHighRate,
		DaysPerMonth: cfg.Sales.DaysPerMonth,
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	cashRegisterRepo := repository.NewCashRegisterRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	goalService := service.NewGoalService(userRepo, goalRepo, analyticsRepo, productCache, commissionRules, appLogger)
	userService := service.NewUserService(userRepo, goalService)
	settingsService := service.NewSettingsService(settingsRepo)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo, productCache, appLogger)
	cashRegisterService := service.NewCashRegisterService(cashRegisterRepo, appLogger)
	deliveryService := service.NewDeliveryService(deliveryRepo, settingsRepo, appLogger)
	saleService := service.NewSaleService(
		saleRepo,
		productRepo,
		customerService,
		cashRegisterService,
		deliveryService,
		publisher,
		checkoutRules,
		appLogger,
	)
	dashboardService := service.NewDashboardService(analyticsRepo, productRepo, deliveryService, goalService)
	printerService := service.NewPrinterService(
		thermalPrinter,
		saleService,
		settingsService,
		cfg.Printer.Type,
		cfg.Printer.CharWidth,
		appLogger,
	)

	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Product:      handler.NewProductHandler(productService),
		Customer:     handler.NewCustomerHandler(customerService),
		Sale:         handler.NewSaleHandler(saleService),
		Delivery:     handler.NewDeliveryHandler(deliveryService),
		CashRegister: handler.NewCashRegisterHandler(cashRegisterService),
		Goal:         handler.NewGoalHandler(goalService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Settings:     handler.NewSettingsHandler(settingsService),
		Printer:      handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Log:             appLogger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go purgeIdempotencyKeys(cleanupCtx, idempotencyRepo, appLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	stopCleanup()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("server stopped")
}

// purgeIdempotencyKeys drops replay records once they can no longer be used
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn("failed to purge idempotency keys", zap.Error(err))
			}
		}
	}
}
