package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"souq/internal/domain"
	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/validate"
)

type RatingHandler struct {
	Ratings *repos.RatingRepo
}

func (h *RatingHandler) List(c *fiber.Ctx) error {
	ratings, err := h.Ratings.List()
	if err != nil {
		return storeError(c, "rating.list", err, true)
	}
	return c.JSON(ratings)
}

func (h *RatingHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid rating id")
	}
	rt, err := h.Ratings.Get(id)
	if err != nil {
		return storeError(c, "rating.get", err, true)
	}
	return c.JSON(rt)
}

type ratingBody struct {
	UserID    *int64   `json:"user_id"`
	ProductID *int64   `json:"product_id"`
	Value     *float64 `json:"value"`
}

// Create upserts ratings: one row per (user, product), later values replace
// earlier ones. Accepts a single rating or a batch.
func (h *RatingHandler) Create(c *fiber.Ctx) error {
	out := make([]domain.Rating, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		var body ratingBody
		if err := json.Unmarshal(raw, &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid rating payload")
		}
		if body.UserID == nil || body.ProductID == nil || body.Value == nil {
			return jsonError(c, fiber.StatusBadRequest, "user_id, product_id and value are required")
		}
		if *body.Value < 0 || *body.Value > 5 {
			return jsonError(c, fiber.StatusBadRequest, "value must be between 0 and 5")
		}
		rt, err := h.Ratings.Upsert(*body.UserID, *body.ProductID, *body.Value)
		if err != nil {
			return storeError(c, "rating.create", err, true)
		}
		out = append(out, rt)
	}
	applog.Info(c, "rating.create", map[string]any{"count": len(out)})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *RatingHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid rating id")
	}
	existing, err := h.Ratings.Get(id)
	if err != nil {
		return storeError(c, "rating.update", err, true)
	}
	if err := json.Unmarshal(c.Body(), &existing); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid rating payload")
	}
	rt, err := h.Ratings.Update(id, existing)
	if err != nil {
		return storeError(c, "rating.update", err, true)
	}
	return c.JSON(rt)
}

func (h *RatingHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid rating id")
	}
	if err := h.Ratings.Delete(id); err != nil {
		return storeError(c, "rating.delete", err, true)
	}
	return c.JSON(fiber.Map{"success": true})
}
