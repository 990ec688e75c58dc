package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberRecover "github.com/gofiber/fiber/v3/middleware/recover"

	"town-discovery/api-gateway/internal/config"
	"town-discovery/api-gateway/internal/handler"
	"town-discovery/api-gateway/internal/middleware"
	"town-discovery/api-gateway/internal/proxy"
	"town-discovery/pkg/swaggerui"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to Redis for rate limiting
	rdb, err := middleware.NewRedisClient(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	// Load swagger spec
	swaggerDoc, err := swaggerui.Load("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger spec unavailable, swagger UI disabled", "error", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "api-gateway",
		ServerHeader: "api-gateway",
	})

	// Global middleware
	app.Use(fiberRecover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	// Authentication (mock), then per-caller rate limiting
	app.Use(middleware.AuthMiddleware())
	rateLimiter := middleware.NewRateLimiter(rdb)
	app.Use(rateLimiter.Limit(middleware.Quota{
		Name:   "global",
		Max:    cfg.RateLimitMax,
		Window: cfg.RateLimitWindow(),
	}))

	// Swagger (public, bypasses auth)
	if swaggerDoc != nil {
		swaggerui.Register(app, swaggerDoc)
	}

	handler.RegisterRoutes(app, cfg, proxy.NewServiceProxy(cfg.ProxyTimeout), rateLimiter)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("api-gateway starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down api-gateway...")

	// Shutdown HTTP server first (stop accepting new requests)
	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	slog.Info("HTTP server stopped")

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		slog.Error("error closing Redis connection", "error", err)
	} else {
		slog.Info("Redis connection closed")
	}

	slog.Info("api-gateway shutdown complete")
}
