package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"town-discovery/preference-service/internal/models"
	"town-discovery/preference-service/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
func (h *UserHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "preference-service",
	})
}

// CreateUser creates a new user.
func (h *UserHandler) CreateUser(c fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.svc.CreateUser(req)
	if err != nil {
		slog.Error("failed to create user", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser returns a user by ID.
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	user, err := h.svc.GetUser(id)
	if err != nil {
		return h.fail(c, "failed to get user", err)
	}

	return c.JSON(user)
}

// SetPreference sets or replaces the user's hobby preferences.
func (h *UserHandler) SetPreference(c fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	var req models.SetPreferenceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	pref, err := h.svc.SetPreference(c.Context(), id, req)
	if err != nil {
		return h.fail(c, "failed to set preferences", err)
	}

	return c.JSON(pref)
}

// GetPreference returns the user's hobby preferences.
func (h *UserHandler) GetPreference(c fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	pref, err := h.svc.GetPreference(c.Context(), id)
	if err != nil {
		return h.fail(c, "failed to get preferences", err)
	}

	return c.JSON(pref)
}

// AddFavorite saves a town to the user's favorites.
func (h *UserHandler) AddFavorite(c fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	var req models.CreateFavoriteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	fav, err := h.svc.AddFavorite(id, req)
	if err != nil {
		return h.fail(c, "failed to add favorite", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fav)
}

// ListFavorites returns the user's favorite towns.
func (h *UserHandler) ListFavorites(c fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	favorites, err := h.svc.ListFavorites(id)
	if err != nil {
		return h.fail(c, "failed to get favorites", err)
	}

	return c.JSON(fiber.Map{
		"user_id":   id,
		"favorites": favorites,
	})
}

// RemoveFavorite deletes a town from the user's favorites.
func (h *UserHandler) RemoveFavorite(c fiber.Ctx) error {
	id, ok := userID(c)
	townID := fiber.Params[int](c, "townId")
	if !ok || townID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user or town ID"})
	}

	if err := h.svc.RemoveFavorite(id, townID); err != nil {
		return h.fail(c, "failed to remove favorite", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Register mounts the user routes on the API group.
func Register(api fiber.Router, h *UserHandler) {
	api.Get("/health", h.Health)

	// User management
	api.Post("/users", h.CreateUser)
	api.Get("/users/:id", h.GetUser)

	// Preferences
	api.Post("/users/:id/preferences", h.SetPreference)
	api.Get("/users/:id/preferences", h.GetPreference)

	// Favorites
	api.Post("/users/:id/favorites", h.AddFavorite)
	api.Get("/users/:id/favorites", h.ListFavorites)
	api.Delete("/users/:id/favorites/:townId", h.RemoveFavorite)
}

func userID(c fiber.Ctx) (int, bool) {
	id := fiber.Params[int](c, "id")
	return id, id > 0
}

// fail maps service errors onto HTTP responses.
func (h *UserHandler) fail(c fiber.Ctx, msg string, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "user not found"})
	case errors.Is(err, service.ErrFavoriteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "favorite not found"})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	slog.Error(msg, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msg})
}
