package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "souq/internal/log"
)

// BodyLimit rejects request bodies larger than max bytes, except on the
// listed paths. The server-level cap stays higher so exempt routes (file
// uploads) can carry bigger payloads than the JSON endpoints allow.
func BodyLimit(max int, exempt ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range exempt {
			if c.Path() == p {
				return c.Next()
			}
		}
		if len(c.Body()) > max {
			applog.Security(c, "body.too_large", map[string]any{"bytes": len(c.Body())})
			return jsonError(c, fiber.StatusRequestEntityTooLarge, "request body too large")
		}
		return c.Next()
	}
}
