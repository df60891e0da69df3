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

	"github.com/ventapos/venta_api/internal/cache"
	"github.com/ventapos/venta_api/internal/config"
	"github.com/ventapos/venta_api/internal/database"
	"github.com/ventapos/venta_api/internal/handler"
	"github.com/ventapos/venta_api/internal/middleware"
	"github.com/ventapos/venta_api/internal/repository"
	"github.com/ventapos/venta_api/internal/service"
	"github.com/ventapos/venta_api/internal/sse"
	"github.com/ventapos/venta_api/internal/utils"
	"github.com/ventapos/venta_api/internal/worker"
)

// main is the application entrypoint for the Venta POS API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting venta api")

	utils.SetJWTSecret(cfg.JWTSecret)

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

	// 3c. Initialize catalog cache
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.CatalogTTL)

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 5. Initialize SSE hub for stock alerts
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo)
	productSvc := service.NewProductService(productRepo, catalogCache, notifier)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)
	exchangeSvc := service.NewExchangeService(registerRepo, productRepo)
	registerSvc := service.NewRegisterService(registerRepo)

	// 7. Initialize handlers
	loginLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db),
		Auth:     handler.NewAuthHandler(authSvc, loginLimiter),
		Product:  handler.NewProductHandler(productSvc),
		Catalog:  handler.NewCatalogHandler(brandRepo, categoryRepo),
		Customer: handler.NewCustomerHandler(customerRepo),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc),
		Exchange: handler.NewExchangeHandler(exchangeSvc),
		Register: handler.NewRegisterHandler(registerSvc),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewStockAlertWorker(productRepo, notifier, cfg.Worker.StockScanInterval).Start(ctx)

	// 12. Start HTTP server
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

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Catalog  *handler.CatalogHandler
	Customer *handler.CustomerHandler
	Invoice  *handler.InvoiceHandler
	Exchange *handler.ExchangeHandler
	Register *handler.RegisterHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.POST("/v1/auth/login", handlers.Auth.Login)

	// SSE stream authenticates via token query param since EventSource
	// cannot set headers.
	router.GET("/v1/alerts/stream", handlers.SSE.Stream)

	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())
	{
		// Products
		v1.GET("/products", handlers.Product.ListProducts)
		v1.POST("/products", handlers.Product.CreateProduct)
		v1.GET("/products/top-selling", handlers.Product.TopSelling)
		v1.GET("/products/:id", handlers.Product.GetProduct)
		v1.PUT("/products/:id", handlers.Product.UpdateProduct)
		v1.DELETE("/products/:id", handlers.Product.DeleteProduct)
		v1.GET("/products/:id/stock-check", handlers.Product.StockCheck)

		// Catalog
		v1.GET("/brands", handlers.Catalog.ListBrands)
		v1.POST("/brands", handlers.Catalog.CreateBrand)
		v1.GET("/categories", handlers.Catalog.ListCategories)
		v1.POST("/categories", handlers.Catalog.CreateCategory)

		// Customers
		v1.GET("/customers", handlers.Customer.ListCustomers)
		v1.POST("/customers", handlers.Customer.CreateCustomer)
		v1.GET("/customers/:id", handlers.Customer.GetCustomer)

		// Invoices
		v1.GET("/invoices", handlers.Invoice.ListInvoices)
		v1.GET("/invoices/:id", handlers.Invoice.GetInvoice)
		v1.GET("/invoices/:id/full", handlers.Invoice.GetFullInvoice)
		v1.GET("/invoices/:id/ticket", handlers.Invoice.GetTicket)
		v1.PUT("/invoices/:id/discount", handlers.Invoice.SetDiscount)
		v1.POST("/invoices/mark-paid", handlers.Invoice.MarkPaid)
		v1.POST("/invoices/cancel", handlers.Invoice.Cancel)

		// Exchanges
		v1.POST("/exchanges", handlers.Exchange.CreateExchange)

		// Register sessions
		v1.GET("/registers/open", handlers.Register.GetOpen)
		v1.POST("/registers/open", handlers.Register.Open)
		v1.POST("/registers/close", handlers.Register.Close)

		// Users
		v1.POST("/users", handlers.Auth.CreateUser)
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
