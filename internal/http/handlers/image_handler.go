package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"souq/internal/domain"
	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/validate"
)

type ImageHandler struct {
	Images *repos.ImageRepo
}

func (h *ImageHandler) List(c *fiber.Ctx) error {
	images, err := h.Images.List()
	if err != nil {
		return storeError(c, "image.list", err, true)
	}
	return c.JSON(images)
}

func (h *ImageHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid image id")
	}
	img, err := h.Images.Get(id)
	if err != nil {
		return storeError(c, "image.get", err, true)
	}
	return c.JSON(img)
}

type imageCreateBody struct {
	ProductID *int64 `json:"product_id"`
	Priority  *int64 `json:"priority"`
	Link      string `json:"link"`
	FileURL   string `json:"fileUrl"`
}

// Create accepts a single image or a batch. The link may arrive as "link" or
// as the upload endpoint's "fileUrl".
func (h *ImageHandler) Create(c *fiber.Ctx) error {
	out := make([]domain.Image, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		var body imageCreateBody
		if err := json.Unmarshal(raw, &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid image payload")
		}
		link := body.Link
		if link == "" {
			link = body.FileURL
		}
		if link == "" {
			return jsonError(c, fiber.StatusBadRequest, "image link is required")
		}
		created, err := h.Images.Create(domain.Image{ProductID: body.ProductID, Link: link, Priority: body.Priority})
		if err != nil {
			return storeError(c, "image.create", err, false)
		}
		out = append(out, created)
	}
	applog.Audit(c, "image.create", map[string]any{"count": len(out)})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ImageHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid image id")
	}
	var patch repos.ImagePatch
	if err := c.BodyParser(&patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid image payload")
	}
	img, err := h.Images.Patch(id, patch)
	if err != nil {
		return storeError(c, "image.update", err, false)
	}
	applog.Audit(c, "image.update", map[string]any{"id": id})
	return c.JSON(img)
}

func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid image id")
	}
	if err := h.Images.Delete(id); err != nil {
		return storeError(c, "image.delete", err, false)
	}
	applog.Audit(c, "image.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
