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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/config"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database"
	"github.com/sangkips/festkasse-api/internal/infrastructure/repository"
	"github.com/sangkips/festkasse-api/internal/presentation/http/handler"
	"github.com/sangkips/festkasse-api/internal/presentation/http/middleware"
	"github.com/sangkips/festkasse-api/internal/presentation/http/routes"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/metrics"
	"github.com/sangkips/festkasse-api/pkg/printer"
	"github.com/sangkips/festkasse-api/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "festkasse-api"}).Fatal(ctx, "failed to load config", err)
	}

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.Debug,
	})

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal(ctx, "failed to connect to database", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error(ctx, "failed to close database", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db, cfg.Database.Driver, log)
		if err != nil {
			log.Fatal(ctx, "failed to prepare migrations", err)
		}
		if err := migrator.Up(ctx); err != nil {
			log.Fatal(ctx, "failed to run migrations", err)
		}
	}

	// Initialize repositories
	settingsRepo := repository.NewSettingsRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	printJobRepo := repository.NewPrintJobRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	groupRepo := repository.NewPickupGroupRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	transactor := repository.NewTransactor(db)

	// Settings first: the register id they hold names the register to seed
	settingsService := service.NewSettingsService(settingsRepo)
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		log.Fatal(ctx, "failed to seed settings", err)
	}
	registerID, err := settingsService.RegisterID(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to read register id", err)
	}
	if err := database.SeedDefaultData(ctx, db, log, registerID, time.Now()); err != nil {
		log.Fatal(ctx, "failed to seed default data", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	posMetrics := metrics.NewPOSMetrics(registry)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
		cfg.Printer.SpoolCommand,
	)
	if err != nil {
		log.Warnf(ctx, "failed to initialize printer, slips fall back to manual: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize services
	printQueue := service.NewPrintQueueService(printJobRepo, nil)
	receiptService := service.NewReceiptService(transactor, receiptRepo, posMetrics, log, nil)
	printerService := service.NewPrinterService(thermalPrinter, printQueue, settingsService, cfg.Printer.Type, posMetrics, log, nil)
	checkoutService := service.NewCheckoutService(settingsService, receiptService, printerService, log)
	authService := service.NewAuthService(settingsService, jwtManager)
	summaryService := service.NewEventSummaryService(summaryRepo, settingsService)
	registerService := service.NewRegisterService(registerRepo, settingsService)
	groupService := service.NewPickupGroupService(groupRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, groupRepo)
	resetService := service.NewResetService(transactor, settingsService, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Checkout:    handler.NewCheckoutHandler(checkoutService),
		Receipt:     handler.NewReceiptHandler(receiptService, printQueue),
		PrintJob:    handler.NewPrintJobHandler(printQueue, printerService),
		Printer:     handler.NewPrinterHandler(printerService),
		Summary:     handler.NewSummaryHandler(summaryService),
		Settings:    handler.NewSettingsHandler(settingsService, registerService),
		PickupGroup: handler.NewPickupGroupHandler(groupService),
		Category:    handler.NewCategoryHandler(categoryService),
		Product:     handler.NewProductHandler(productService),
		Admin:       handler.NewAdminHandler(resetService),
	}

	rateLimiter := middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Log:             log,
		Metrics:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(ctx, "starting %s on port %s (%s)", cfg.App.Name, cfg.App.Port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(ctx, "server failed", err)
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}

// purgeIdempotencyKeys drops expired checkout replay entries once an hour
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := repo.DeleteExpired(ctx, now); err != nil {
				log.Warnf(ctx, "purging idempotency keys failed: %v", err)
			}
		}
	}
}
