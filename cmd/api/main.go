package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/heven-commerce/storefront/internal/config"
	"github.com/heven-commerce/storefront/internal/handler"
	"github.com/heven-commerce/storefront/internal/middleware"
	"github.com/heven-commerce/storefront/internal/pricing"
	"github.com/heven-commerce/storefront/internal/repository"
	"github.com/heven-commerce/storefront/internal/service"
	"github.com/heven-commerce/storefront/internal/validator"
	"github.com/heven-commerce/storefront/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry, then ensure the schema
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Heven Storefront",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Pricing policy from configuration
	policy := pricing.Policy{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
		TaxRatePercent:        cfg.Pricing.TaxRatePercent,
	}

	// Repositories
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Services (layered architecture)
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, couponRepo, policy)
	checkoutService := service.NewCheckoutService(pool, cartRepo, couponRepo, orderRepo, policy)
	couponService := service.NewCouponService(couponRepo)
	orderService := service.NewOrderService(orderRepo)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenTTL)*time.Minute, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, orderRepo, productRepo)

	// Handlers
	productHandler := handler.NewProductHandler(catalogService, validate)
	cartHandler := handler.NewCartHandler(cartService, validate)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	userHandler := handler.NewUserHandler(authService, userService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Public routes
	app.Post("/api/auth/register", userHandler.Register)
	app.Post("/api/auth/login", userHandler.Login)
	app.Get("/api/products", productHandler.List)
	app.Get("/api/products/:id", productHandler.Get)

	// Customer routes
	auth := middleware.RequireAuth(cfg.Auth.JWTSecret)
	app.Get("/api/cart", auth, cartHandler.Get)
	app.Post("/api/cart/items", auth, cartHandler.AddItem)
	app.Put("/api/cart/items", auth, cartHandler.UpdateItem)
	app.Delete("/api/cart/items", auth, cartHandler.RemoveItem)
	app.Post("/api/cart/coupon", auth, cartHandler.ApplyCoupon)
	app.Post("/api/checkout", auth, orderHandler.Checkout)
	app.Get("/api/orders", auth, orderHandler.ListMine)
	app.Get("/api/orders/:id", auth, orderHandler.Get)

	// Admin routes
	admin := app.Group("/api/admin", auth, middleware.RequireAdmin())
	admin.Get("/dashboard", userHandler.Dashboard)
	admin.Post("/products", productHandler.Create)
	admin.Patch("/products/:id", productHandler.Update)
	admin.Delete("/products/:id", productHandler.Delete)
	admin.Get("/orders", orderHandler.ListAll)
	admin.Patch("/orders/:id/status", orderHandler.UpdateStatus)
	admin.Get("/users", userHandler.List)
	admin.Patch("/users/:id/block", userHandler.SetBlocked)
	admin.Post("/coupons", couponHandler.Create)
	admin.Get("/coupons", couponHandler.List)
	admin.Get("/coupons/:code", couponHandler.Get)
	admin.Patch("/coupons/:code", couponHandler.Update)
	admin.Delete("/coupons/:code", couponHandler.Delete)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
