package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billstock/backend/internal/config"
	domainRepo "github.com/billstock/backend/internal/domain/repository"
	"github.com/billstock/backend/internal/presentation/http/handler"
	"github.com/billstock/backend/internal/presentation/http/middleware"
	"github.com/billstock/backend/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Customer *handler.CustomerHandler
	Item     *handler.ItemHandler
	Bill     *handler.BillHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Catalogs
	registerCustomerRoutes(protected, h)
	registerItemRoutes(protected, h)

	// Bills
	registerBillRoutes(protected, h, deps)

	// Sync
	protected.GET("/sync/status", h.Bill.SyncStatus)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerItemRoutes(protected *gin.RouterGroup, h *Handlers) {
	items := protected.Group("/items")
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", h.Item.Delete)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := protected.Group("/bills")
	{
		bills.POST("", h.Bill.Create)
		bills.GET("/queue", h.Bill.Queue)
		bills.GET("/archive", h.Bill.Archive)
		bills.DELETE("/queue/:id", h.Bill.DeleteQueued)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/activate", h.Bill.Activate)
		bills.PUT("/:id/rows", h.Bill.UpdateRows)
		bills.PUT("/:id/customer", h.Bill.SetCustomer)
		// Saves and payments move money; retried requests replay instead of
		// re-executing when the client sends an Idempotency-Key.
		bills.POST("/:id/save", middleware.Idempotency(deps.IdempotencyRepo), h.Bill.Save)
		bills.POST("/:id/payments", middleware.Idempotency(deps.IdempotencyRepo), h.Bill.AddPayment)
		bills.POST("/:id/edit", h.Bill.Edit)
		bills.DELETE("/:id", h.Bill.Delete)
	}
}
