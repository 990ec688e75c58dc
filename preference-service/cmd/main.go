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
	"town-discovery/preference-service/internal/config"
	"town-discovery/preference-service/internal/database"
	"town-discovery/preference-service/internal/handler"
	"town-discovery/preference-service/internal/repository"
	"town-discovery/preference-service/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache or change notifications", "error", err)
	} else {
		defer rdb.Close()
	}

	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo, rdb)
	h := handler.NewUserHandler(svc)

	app := fiber.New(fiber.Config{
		AppName:      "Preference Service",
		ServerHeader: "Preference-Service",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	if doc, err := swaggerui.Load("docs/swagger.yaml"); err != nil {
		slog.Warn("swagger.yaml unavailable", "error", err)
	} else {
		swaggerui.Register(app, doc)
	}

	handler.Register(app.Group("/api/v1"), h)

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting preference service", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down preference service...")
	_ = app.Shutdown()
}
