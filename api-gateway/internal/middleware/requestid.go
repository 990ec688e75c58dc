package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id between the gateway and services.
const RequestIDHeader = "X-Request-ID"

// RequestID stamps every request with an id, keeping one the client already
// sent. The id is echoed on the response and stored in Locals("request_id").
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Request().Header.Set(RequestIDHeader, id)
		c.Set(RequestIDHeader, id)
		c.Locals("request_id", id)
		return c.Next()
	}
}
