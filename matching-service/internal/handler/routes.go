package handler

import "github.com/gofiber/fiber/v3"

// Register mounts the matching routes on app.
func Register(app *fiber.App, h *MatchHandler) {
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")
	api.Get("/users/:id/town-matches", h.GetTownMatches)
	api.Post("/hobby-score", h.ScoreTown)
	api.Get("/hobbies", h.ListHobbies)
	api.Get("/towns/:id/hobbies", h.GetTownHobbies)
}
