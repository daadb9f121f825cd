package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	applog "souq/internal/log"
	"souq/internal/services"
)

type UploadHandler struct {
	Uploads *services.UploadService
}

// Post receives a multipart file and returns the stored link.
func (h *UploadHandler) Post(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "file field is required")
	}
	f, err := fh.Open()
	if err != nil {
		return storeError(c, "upload", err, false)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return storeError(c, "upload", err, false)
	}

	link, err := h.Uploads.Store(fh.Filename, data)
	if err != nil {
		return storeError(c, "upload", err, false)
	}
	applog.Audit(c, "upload", map[string]any{"name": fh.Filename, "size": len(data)})
	return c.JSON(fiber.Map{"success": true, "link": link})
}
