package handler

import (
	"github.com/gofiber/fiber/v3"

	"town-discovery/api-gateway/internal/config"
	"town-discovery/api-gateway/internal/middleware"
	"town-discovery/api-gateway/internal/proxy"
)

// MatchQuotaName is the rate-limit bucket for town rankings, which fan out
// to every other service.
const MatchQuotaName = "town-matches"

// RegisterRoutes wires every public path to the service that owns it. More
// specific routes are registered first.
func RegisterRoutes(app *fiber.App, cfg *config.Config, svcProxy *proxy.ServiceProxy, limiter *middleware.RateLimiter) {
	// Health check (gateway itself)
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "api-gateway",
		})
	})

	toTowns := svcProxy.Forward(proxy.Upstream{Name: "town-service", BaseURL: cfg.TownServiceURL})
	toPreferences := svcProxy.Forward(proxy.Upstream{Name: "preference-service", BaseURL: cfg.UserPreferenceServiceURL})
	toMatching := svcProxy.Forward(proxy.Upstream{Name: "matching-service", BaseURL: cfg.MatchingServiceURL})

	matchQuota := limiter.Limit(middleware.Quota{
		Name:   MatchQuotaName,
		Max:    cfg.MatchRateLimitMax,
		Window: cfg.RateLimitWindow(),
	})

	// Route: Matching -> Matching Service
	app.All("/api/v1/users/:id/town-matches", matchQuota, toMatching)
	app.All("/api/v1/towns/:id/hobbies", toMatching)
	app.All("/api/v1/hobbies", toMatching)
	app.All("/api/v1/hobby-score", toMatching)

	// Route: Towns and admin -> Town Service
	app.All("/api/v1/towns/*", toTowns)
	app.All("/api/v1/towns", toTowns)
	app.All("/api/v1/admin/*", toTowns)

	// Route: Users, preferences and favorites -> Preference Service
	app.All("/api/v1/users/*", toPreferences)
	app.All("/api/v1/users", toPreferences)
}
