package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"town-discovery/town-service/internal/models"
	"town-discovery/town-service/internal/service"
)

// TownHandler handles HTTP requests for towns.
type TownHandler struct {
	svc *service.TownService
}

// NewTownHandler creates a new TownHandler.
func NewTownHandler(svc *service.TownService) *TownHandler {
	return &TownHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *TownHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "town-service",
	})
}

// ListTowns returns a paginated list of towns.
// @Summary List towns
// @Tags towns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Param sort_by query string false "Sort field" Enums(name,country,updated_at) default(name)
// @Param order query string false "Sort order" Enums(asc,desc) default(asc)
// @Param country query string false "Filter by country"
// @Param with_photo query bool false "Only towns with a photo"
// @Success 200 {object} models.TownListResponse
// @Failure 500 {object} ErrorResponse
// @Router /towns [get]
func (h *TownHandler) ListTowns(c fiber.Ctx) error {
	params := models.TownListParams{
		Page:      fiber.Query(c, "page", 1),
		PageSize:  fiber.Query(c, "page_size", 20),
		SortBy:    c.Query("sort_by", "name"),
		Order:     c.Query("order", "asc"),
		Country:   c.Query("country"),
		WithPhoto: fiber.Query(c, "with_photo", false),
	}

	result, err := h.svc.ListTowns(c.Context(), params)
	if err != nil {
		slog.Error("failed to list towns", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve towns",
		})
	}

	return c.JSON(result)
}

// GetTown returns a single town.
// @Summary Get town
// @Tags towns
// @Produce json
// @Param id path int true "Town ID"
// @Success 200 {object} models.Town
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /towns/{id} [get]
func (h *TownHandler) GetTown(c fiber.Ctx) error {
	id := fiber.Params[int](c, "id")
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid town ID",
		})
	}

	town, err := h.svc.GetTown(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTownNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "town not found",
			})
		}
		slog.Error("failed to get town", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve town",
		})
	}

	return c.JSON(town)
}

// SyncTowns triggers a sync of towns from the upstream feed.
// @Summary Sync towns from the feed
// @Tags admin
// @Produce json
// @Param pages query int false "Number of pages to sync" default(5)
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} ErrorResponse
// @Router /admin/sync [post]
func (h *TownHandler) SyncTowns(c fiber.Ctx) error {
	pages := fiber.Query(c, "pages", 5)
	if pages < 1 {
		pages = 1
	}
	if pages > 50 {
		pages = 50
	}

	count, err := h.svc.SyncTowns(c.Context(), pages)
	if err != nil {
		slog.Error("sync failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "sync failed: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":      "sync completed",
		"towns_synced": count,
		"pages":        pages,
	})
}

// DeriveCapabilities recomputes hobby capabilities for all towns.
// @Summary Recompute town hobby capabilities
// @Tags admin
// @Produce json
// @Success 200 {object} models.CapabilityRun
// @Failure 500 {object} ErrorResponse
// @Router /admin/capabilities [post]
func (h *TownHandler) DeriveCapabilities(c fiber.Ctx) error {
	run, err := h.svc.DeriveCapabilities(c.Context())
	if err != nil {
		slog.Error("capability derivation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "capability derivation failed",
		})
	}
	return c.JSON(run)
}

// Register mounts the town routes on the API group.
func Register(api fiber.Router, h *TownHandler) {
	api.Get("/health", h.Health)
	api.Get("/towns", h.ListTowns)
	api.Get("/towns/:id", h.GetTown)
	api.Post("/admin/sync", h.SyncTowns)
	api.Post("/admin/capabilities", h.DeriveCapabilities)
}
