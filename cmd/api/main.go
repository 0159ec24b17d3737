package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/billstock/backend/internal/application/service"
	"github.com/billstock/backend/internal/config"
	"github.com/billstock/backend/internal/infrastructure/database"
	"github.com/billstock/backend/internal/infrastructure/remote"
	"github.com/billstock/backend/internal/infrastructure/repository"
	"github.com/billstock/backend/internal/presentation/http/handler"
	"github.com/billstock/backend/internal/presentation/http/routes"
	"github.com/billstock/backend/pkg/oauth"
	"github.com/billstock/backend/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Remote mirror for catalogs and bills
	remoteStore := remote.NewPostgresStore(db)

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	stateManager := service.NewStateManager(remoteStore, cfg.App.SeedDemo)
	authService := service.NewAuthService(userRepo, jwtManager)
	catalogService := service.NewCatalogService(stateManager)
	billingService := service.NewBillingService(stateManager)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, googleOAuthService),
		Customer: handler.NewCustomerHandler(catalogService),
		Item:     handler.NewItemHandler(catalogService),
		Bill:     handler.NewBillHandler(billingService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
