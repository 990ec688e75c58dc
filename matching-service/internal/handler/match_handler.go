package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"town-discovery/matching-service/internal/models"
	"town-discovery/matching-service/internal/service"
)

const (
	defaultMatchLimit = 10
	maxMatchLimit     = 50
)

type MatchHandler struct {
	svc *service.MatchService
}

func NewMatchHandler(svc *service.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health godoc
// GET /health
func (h *MatchHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "matching-service",
	})
}

// GetTownMatches godoc
// GET /api/v1/users/:id/town-matches
func (h *MatchHandler) GetTownMatches(c fiber.Ctx) error {
	userID := fiber.Params[int](c, "id")
	if userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	limit := fiber.Query(c, "limit", defaultMatchLimit)
	if limit <= 0 || limit > maxMatchLimit {
		limit = defaultMatchLimit
	}

	resp, err := h.svc.RankTowns(c.Context(), userID, limit)
	if err != nil {
		var fetchErr *service.DataFetchError
		if errors.As(err, &fetchErr) {
			slog.Warn("town ranking unavailable", "user_id", userID, "source", fetchErr.Source, "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(models.TownMatchErrorResponse{
				UserID:    userID,
				Towns:     []models.TownMatch{},
				Error:     "could not load " + fetchErr.Source,
				Retryable: true,
			})
		}
		slog.Error("failed to rank towns", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.TownMatchErrorResponse{
			UserID: userID,
			Towns:  []models.TownMatch{},
			Error:  "failed to rank towns",
		})
	}

	return c.JSON(resp)
}

// ScoreTown godoc
// POST /api/v1/hobby-score
func (h *MatchHandler) ScoreTown(c fiber.Ctx) error {
	var req models.HobbyScoreRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	return c.JSON(h.svc.ScoreTown(req))
}

// ListHobbies godoc
// GET /api/v1/hobbies
func (h *MatchHandler) ListHobbies(c fiber.Ctx) error {
	hobbies, err := h.svc.ListHobbies(c.Context())
	if err != nil {
		slog.Error("failed to list hobbies", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to fetch hobby catalog"})
	}
	return c.JSON(fiber.Map{"hobbies": hobbies})
}

// GetTownHobbies godoc
// GET /api/v1/towns/:id/hobbies
func (h *MatchHandler) GetTownHobbies(c fiber.Ctx) error {
	townID := fiber.Params[int](c, "id")
	if townID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid town ID"})
	}

	resp, err := h.svc.TownHobbies(c.Context(), townID)
	if err != nil {
		var fetchErr *service.DataFetchError
		switch {
		case errors.Is(err, service.ErrTownNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "town not found"})
		case errors.As(err, &fetchErr):
			slog.Warn("town hobbies unavailable", "town_id", townID, "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "could not load " + fetchErr.Source})
		default:
			slog.Error("failed to list town hobbies", "town_id", townID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list town hobbies"})
		}
	}
	return c.JSON(resp)
}
