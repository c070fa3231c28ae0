package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/config"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/internal/presentation/http/handler"
	"github.com/sangkips/festkasse-api/internal/presentation/http/middleware"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Checkout    *handler.CheckoutHandler
	Receipt     *handler.ReceiptHandler
	PrintJob    *handler.PrintJobHandler
	Printer     *handler.PrinterHandler
	Summary     *handler.SummaryHandler
	Settings    *handler.SettingsHandler
	PickupGroup *handler.PickupGroupHandler
	Category    *handler.CategoryHandler
	Product     *handler.ProductHandler
	Admin       *handler.AdminHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *logger.Logger
	// Metrics serves the Prometheus scrape endpoint; nil disables it
	Metrics     http.Handler
	RateLimiter *middleware.TerminalRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		auth := v1.Group("/auth")
		auth.Use(rateLimiter.Middleware())
		auth.POST("/unlock", h.Auth.Unlock)

		// Protected routes, limited per terminal
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Log))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Checkout replays the first answer for a repeated Idempotency-Key
	protected.POST("/checkout", middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	}), h.Checkout.Checkout)

	registerReceiptRoutes(protected, h)
	registerPrintRoutes(protected, h)

	protected.GET("/summary", h.Summary.Get)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)
	protected.PUT("/settings/pin", h.Auth.ChangePIN)
	protected.GET("/register", h.Settings.GetRegister)
	protected.PUT("/register", h.Settings.UpdateRegister)

	registerCatalogRoutes(protected, h)

	protected.POST("/admin/reset", h.Admin.Reset)
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.GET("/:id", h.Receipt.Get)
	}
}

func registerPrintRoutes(protected *gin.RouterGroup, h *Handlers) {
	jobs := protected.Group("/print-jobs")
	{
		jobs.GET("", h.PrintJob.ListOpen)
		jobs.GET("/:id", h.PrintJob.Get)
		jobs.POST("/:id/retry", h.PrintJob.Retry)
		jobs.POST("/:id/printed", h.PrintJob.MarkPrinted)
	}

	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	groups := protected.Group("/pickup-groups")
	{
		groups.GET("", h.PickupGroup.List)
		groups.POST("", h.PickupGroup.Create)
		groups.PUT("/:id", h.PickupGroup.Rename)
	}

	protected.GET("/categories", h.Category.List)

	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.PUT("", h.Product.Upsert)
		products.PUT("/:id/group", h.Product.SetGroup)
		products.DELETE("/:id", h.Product.Delete)
	}
}
