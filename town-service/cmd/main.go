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
	"github.com/gofiber/fiber/v3/middleware/recover"

	"town-discovery/pkg/swaggerui"
	"town-discovery/town-service/internal/config"
	"town-discovery/town-service/internal/database"
	"town-discovery/town-service/internal/feed"
	"town-discovery/town-service/internal/handler"
	"town-discovery/town-service/internal/repository"
	"town-discovery/town-service/internal/scheduler"
	"town-discovery/town-service/internal/service"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		defer rdb.Close()
	}

	// Initialize layers
	feedClient := feed.NewClient(cfg.Feed.APIKey, cfg.Feed.BaseURL)
	repo := repository.NewTownRepository(db)
	svc := service.NewTownService(repo, feedClient, rdb)
	h := handler.NewTownHandler(svc)

	if cfg.CapabilityRefreshHours > 0 {
		sched := scheduler.New(svc, cfg.CapabilityRefreshHours)
		if err := sched.Start(ctx); err != nil {
			slog.Error("failed to start capability scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Town Service",
		ServerHeader: "Town-Service",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger docs
	if doc, err := swaggerui.Load("docs/swagger.yaml"); err != nil {
		slog.Warn("swagger.yaml unavailable, swagger UI disabled", "error", err)
	} else {
		swaggerui.Register(app, doc)
	}

	// API routes
	handler.Register(app.Group("/api/v1"), h)

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting town service", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down town service...")
	_ = app.Shutdown()
}
