package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"souq/internal/domain"
	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/validate"
)

type ProductHandler struct {
	Products *repos.ProductRepo
}

// List is the storefront catalog dump.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Products.List()
	if err != nil {
		return storeError(c, "product.list", err, true)
	}
	return c.JSON(products)
}

// ListAdmin returns a plain page of product rows.
func (h *ProductHandler) ListAdmin(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	total, err := h.Products.Count(nil)
	if err != nil {
		return storeError(c, "product.list", err, false)
	}
	products, err := h.Products.ListPaged(pageSize, (page-1)*pageSize)
	if err != nil {
		return storeError(c, "product.list", err, false)
	}
	return c.JSON(pageEnvelope(products, total, page, pageSize))
}

// ListCards returns the enriched card page used by the admin product grid,
// optionally scoped to a category.
func (h *ProductHandler) ListCards(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))

	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid category_id")
		}
		categoryID = &id
	}

	total, err := h.Products.Count(categoryID)
	if err != nil {
		return storeError(c, "product.cards", err, false)
	}
	cards, err := h.Products.ListCards(categoryID, pageSize, (page-1)*pageSize)
	if err != nil {
		return storeError(c, "product.cards", err, false)
	}
	return c.JSON(pageEnvelope(cards, total, page, pageSize))
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Products.Get(id)
	if err != nil {
		return storeError(c, "product.get", err, true)
	}
	return c.JSON(p)
}

// GetCard returns one product in its enriched card shape.
func (h *ProductHandler) GetCard(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	card, err := h.Products.GetCard(id)
	if err != nil {
		return storeError(c, "product.card", err, false)
	}
	return c.JSON(card)
}

// Similar resolves the product's related list into active cards.
func (h *ProductHandler) Similar(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	cards, err := h.Products.Similar(id)
	if err != nil {
		return storeError(c, "product.similar", err, true)
	}
	return c.JSON(cards)
}

// Create accepts a single product or a batch. New products default to active
// and available unless the payload says otherwise.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	out := make([]domain.Product, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		p := domain.Product{Active: true, Available: true}
		if err := json.Unmarshal(raw, &p); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid product payload")
		}
		if p.Name == "" {
			return jsonError(c, fiber.StatusBadRequest, "product name is required")
		}
		created, err := h.Products.Create(p)
		if err != nil {
			return storeError(c, "product.create", err, false)
		}
		out = append(out, created)
	}
	applog.Audit(c, "product.create", map[string]any{"count": len(out)})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	var patch domain.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product payload")
	}
	p, err := h.Products.Patch(id, patch)
	if err != nil {
		return storeError(c, "product.update", err, false)
	}
	applog.Audit(c, "product.update", map[string]any{"id": id})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Products.Delete(id); err != nil {
		return storeError(c, "product.delete", err, false)
	}
	applog.Audit(c, "product.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
