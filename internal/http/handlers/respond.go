package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "souq/internal/log"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// pageEnvelope is the admin listing contract: {data, total, page, pageSize}.
func pageEnvelope(data any, total, page, pageSize int) fiber.Map {
	return fiber.Map{"data": data, "total": total, "page": page, "pageSize": pageSize}
}

// storeError maps data-layer failures onto the API surface. The public tree
// masks internals; the admin tree passes the message through.
func storeError(c *fiber.Ctx, action string, err error, masked bool) error {
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	applog.Error(c, action, err, nil)
	if masked {
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	return jsonError(c, fiber.StatusInternalServerError, err.Error())
}

// splitBatch normalizes a request body holding either one object or an array
// of objects into raw elements, so create endpoints accept both shapes.
func splitBatch(body []byte) []json.RawMessage {
	var many []json.RawMessage
	if err := json.Unmarshal(body, &many); err == nil {
		return many
	}
	return []json.RawMessage{json.RawMessage(body)}
}
