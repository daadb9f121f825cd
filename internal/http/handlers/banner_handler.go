package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"souq/internal/domain"
	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/services"
	"souq/internal/validate"
)

type BannerHandler struct {
	Banners  *repos.BannerRepo
	Resolver *services.BannerResolver
}

// List returns the storefront's resolved banners: active only, by priority,
// every map element dereferenced.
func (h *BannerHandler) List(c *fiber.Ctx) error {
	banners, err := h.Resolver.ResolveActive()
	if err != nil {
		return storeError(c, "banner.list", err, true)
	}
	return c.JSON(banners)
}

// ListAdmin returns a resolved page of all banners, hidden and inactive
// included.
func (h *BannerHandler) ListAdmin(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	banners, total, err := h.Resolver.ResolvePage(page, pageSize)
	if err != nil {
		return storeError(c, "banner.list", err, false)
	}
	return c.JSON(pageEnvelope(banners, total, page, pageSize))
}

// GetResolved returns one banner with its map dereferenced.
func (h *BannerHandler) GetResolved(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid banner id")
	}
	banner, err := h.Resolver.ResolveByID(id)
	if err != nil {
		return storeError(c, "banner.resolve", err, true)
	}
	return c.JSON(banner)
}

// Get returns the raw banner row, map unresolved.
func (h *BannerHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid banner id")
	}
	banner, err := h.Banners.Get(id)
	if err != nil {
		return storeError(c, "banner.get", err, true)
	}
	return c.JSON(banner)
}

// Create accepts a single banner or a batch. Type defaults to "list" and new
// banners start active.
func (h *BannerHandler) Create(c *fiber.Ctx) error {
	out := make([]domain.Banner, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		b := domain.Banner{Type: domain.BannerList, Active: true}
		if err := json.Unmarshal(raw, &b); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid banner payload")
		}
		if b.Name == "" {
			return jsonError(c, fiber.StatusBadRequest, "banner name is required")
		}
		created, err := h.Banners.Create(b)
		if err != nil {
			return storeError(c, "banner.create", err, false)
		}
		out = append(out, created)
	}
	applog.Audit(c, "banner.create", map[string]any{"count": len(out)})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *BannerHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid banner id")
	}
	var patch domain.BannerPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid banner payload")
	}
	banner, err := h.Banners.Patch(id, patch)
	if err != nil {
		return storeError(c, "banner.update", err, false)
	}
	applog.Audit(c, "banner.update", map[string]any{"id": id})
	return c.JSON(banner)
}

func (h *BannerHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid banner id")
	}
	if err := h.Banners.Delete(id); err != nil {
		return storeError(c, "banner.delete", err, false)
	}
	applog.Audit(c, "banner.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
