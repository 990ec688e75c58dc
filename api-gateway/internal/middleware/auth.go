package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// DefaultPublicPrefixes are reachable without a bearer token.
var DefaultPublicPrefixes = []string{"/health", "/swagger"}

// AuthMiddleware provides mock Bearer token authentication: any non-empty
// token is accepted and stored in Locals("auth_token"). Paths under one of
// publicPrefixes skip the check; none given means DefaultPublicPrefixes.
func AuthMiddleware(publicPrefixes ...string) fiber.Handler {
	if len(publicPrefixes) == 0 {
		publicPrefixes = DefaultPublicPrefixes
	}

	return func(c fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "missing Authorization header")
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return unauthorized(c, "invalid Authorization header format, expected 'Bearer <token>'")
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return unauthorized(c, "empty bearer token")
		}

		// TODO: validate the token against an identity provider once one exists.
		c.Locals("auth_token", token)

		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":      msg,
		"request_id": c.Locals("request_id"),
	})
}
