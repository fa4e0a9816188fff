package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DistriaGit/distria_api/internal/agent"
	"github.com/DistriaGit/distria_api/internal/cache"
	"github.com/DistriaGit/distria_api/internal/config"
	"github.com/DistriaGit/distria_api/internal/database"
	"github.com/DistriaGit/distria_api/internal/handler"
	"github.com/DistriaGit/distria_api/internal/middleware"
	"github.com/DistriaGit/distria_api/internal/repository"
	"github.com/DistriaGit/distria_api/internal/service"
)

// main is the application entrypoint for the Distria API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting distria api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	salespersonRepo := repository.NewSalespersonRepository(db)

	// 5. Initialize services
	authSvc := service.NewAuthService(salespersonRepo, cfg.JWTSecret)
	inventorySvc := service.NewInventoryService(db, inventoryRepo, productRepo)
	catalogSvc := service.NewCatalogService(productRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, customerRepo, inventorySvc)
	suggestionSvc := service.NewSuggestionService(productRepo, orderRepo, inventoryRepo, customerRepo, cfg.Suggestion)

	// 6. Initialize conversational agent
	llmClient := agent.NewClient(&cfg.OpenRouter)
	dispatcher := agent.NewDispatcher(catalogSvc, suggestionSvc, orderSvc, customerSvc)
	salesAgent := agent.NewAgent(llmClient, dispatcher, cfg.Agent.MaxToolSteps)
	sessionStore := cache.NewSessionStore(redisClient, cfg.Agent.SessionTTL, cfg.Agent.HistoryMaxMessages)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(db, redisClient),
		Auth:       handler.NewAuthHandler(authSvc),
		Chat:       handler.NewChatHandler(salesAgent, sessionStore),
		Catalog:    handler.NewCatalogHandler(catalogSvc),
		Customer:   handler.NewCustomerHandler(customerSvc),
		Suggestion: handler.NewSuggestionHandler(suggestionSvc),
		Inventory:  handler.NewInventoryHandler(inventorySvc),
		Order:      handler.NewOrderHandler(orderSvc),
	}

	// 8. Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())

	setupRoutes(router, handlers, authMiddleware)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Chat       *handler.ChatHandler
	Catalog    *handler.CatalogHandler
	Customer   *handler.CustomerHandler
	Suggestion *handler.SuggestionHandler
	Inventory  *handler.InventoryHandler
	Order      *handler.OrderHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", handlers.Health.Health)

	router.POST("/v1/auth/login", handlers.Auth.Login)

	// Salesperson routes (protected with JWT)
	v1 := router.Group("/v1")
	v1.Use(authMiddleware.Handle())
	{
		// Conversational agent
		v1.POST("/chat", handlers.Chat.Chat)
		v1.DELETE("/chat", handlers.Chat.ResetChat)

		// Catalog
		v1.GET("/catalog/products", handlers.Catalog.ListProducts)
		v1.GET("/catalog/search", handlers.Catalog.SearchStock)

		// Customers
		v1.GET("/customers", handlers.Customer.List)
		v1.GET("/customers/:id", handlers.Customer.Get)
		v1.GET("/customers/:id/suggestions", handlers.Suggestion.Suggest)

		// Inventory
		v1.GET("/inventory/:sku", handlers.Inventory.GetStock)
		v1.POST("/inventory/intake", handlers.Inventory.Intake)
		v1.POST("/inventory/lots/:id/adjust", handlers.Inventory.Adjust)
		v1.GET("/inventory/lots/:id/movements", handlers.Inventory.Movements)

		// Orders
		v1.POST("/orders", handlers.Order.Create)
		v1.GET("/orders", handlers.Order.List)
		v1.GET("/orders/:id", handlers.Order.Get)
		v1.GET("/orders/by-number/:number", handlers.Order.GetByNumber)
		v1.POST("/orders/:id/confirm", handlers.Order.Confirm)
		v1.PATCH("/orders/:id/status", handlers.Order.UpdateStatus)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
