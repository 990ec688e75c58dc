package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"town-discovery/matching-service/internal/config"
	"town-discovery/matching-service/internal/database"
	"town-discovery/matching-service/internal/handler"
	"town-discovery/matching-service/internal/hobby"
	"town-discovery/matching-service/internal/models"
	"town-discovery/matching-service/internal/repository"
	"town-discovery/matching-service/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taxonomy, err := hobby.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		slog.Error("failed to load hobby taxonomy", "path", cfg.TaxonomyPath, "error", err)
		os.Exit(1)
	}

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
	repo := repository.NewHobbyRepository(db)
	svc := service.NewMatchService(service.Deps{
		Catalog:                  repo,
		CatalogCache:             hobby.NewTTLCache[[]models.Hobby](cfg.CatalogCacheTTL),
		Resolver:                 hobby.NewTaxonomyResolver(taxonomy),
		Redis:                    rdb,
		MatchCacheTTL:            cfg.MatchCacheTTL,
		TownServiceURL:           cfg.TownServiceURL,
		UserPreferenceServiceURL: cfg.UserPreferenceServiceURL,
	})
	h := handler.NewMatchHandler(svc)

	go svc.WatchChanges(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "matching-service",
		ServerHeader: "matching-service",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Routes
	handler.Register(app, h)

	go func() {
		slog.Info("matching-service starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down matching-service")
	_ = app.Shutdown()
}
