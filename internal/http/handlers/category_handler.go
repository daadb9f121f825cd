package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"souq/internal/domain"
	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/validate"
)

type CategoryHandler struct {
	Categories *repos.CategoryRepo
}

// List returns the storefront's categories: active only, by priority.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Categories.ListActive()
	if err != nil {
		return storeError(c, "category.list", err, true)
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) ListAdmin(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	total, err := h.Categories.Count()
	if err != nil {
		return storeError(c, "category.list", err, false)
	}
	cats, err := h.Categories.ListPaged(pageSize, (page-1)*pageSize)
	if err != nil {
		return storeError(c, "category.list", err, false)
	}
	return c.JSON(pageEnvelope(cats, total, page, pageSize))
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	cat, err := h.Categories.Get(id)
	if err != nil {
		return storeError(c, "category.get", err, true)
	}
	return c.JSON(cat)
}

// Create accepts a single category or a batch, active by default.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	out := make([]domain.Category, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		cat := domain.Category{Active: true}
		if err := json.Unmarshal(raw, &cat); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid category payload")
		}
		if cat.Name == "" {
			return jsonError(c, fiber.StatusBadRequest, "category name is required")
		}
		created, err := h.Categories.Create(cat)
		if err != nil {
			return storeError(c, "category.create", err, false)
		}
		out = append(out, created)
	}
	applog.Audit(c, "category.create", map[string]any{"count": len(out)})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	var patch repos.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid category payload")
	}
	cat, err := h.Categories.Patch(id, patch)
	if err != nil {
		return storeError(c, "category.update", err, false)
	}
	applog.Audit(c, "category.update", map[string]any{"id": id})
	return c.JSON(cat)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	if err := h.Categories.Delete(id); err != nil {
		return storeError(c, "category.delete", err, false)
	}
	applog.Audit(c, "category.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
