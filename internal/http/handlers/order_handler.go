package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"souq/internal/domain"
	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/services"
	"souq/internal/validate"
)

type OrderHandler struct {
	Orders *repos.OrderRepo
	Svc    *services.OrderService
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.List()
	if err != nil {
		return storeError(c, "order.list", err, true)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) ListAdmin(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	total, err := h.Orders.Count()
	if err != nil {
		return storeError(c, "order.list", err, false)
	}
	orders, err := h.Orders.ListPaged(pageSize, (page-1)*pageSize)
	if err != nil {
		return storeError(c, "order.list", err, false)
	}
	return c.JSON(pageEnvelope(orders, total, page, pageSize))
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return storeError(c, "order.get", err, true)
	}
	return c.JSON(o)
}

// GetAdmin returns the order together with the buyer's name.
func (h *OrderHandler) GetAdmin(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	o, err := h.Orders.GetWithUser(id)
	if err != nil {
		return storeError(c, "order.get", err, false)
	}
	return c.JSON(o)
}

// Products returns the order with each stored item overlaid by the product's
// current name, price, stock and primary image.
func (h *OrderHandler) Products(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	out, err := h.Svc.ProductsForOrder(id)
	if err != nil {
		return storeError(c, "order.products", err, false)
	}
	return c.JSON(out)
}

// Create places a checkout batch for the authenticated user. The whole batch
// is one transaction: any insufficient stock rolls everything back.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "missing bearer token")
	}
	if phone := probePhone(c.Body()); phone != "" {
		if _, ok := validate.Phone(phone); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid phone number")
		}
	}

	inputs := make([]services.OrderInput, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		var in services.OrderInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid order payload")
		}
		inputs = append(inputs, in)
	}

	orders, err := h.Svc.Place(claims.UserID, inputs)
	switch {
	case errors.Is(err, services.ErrEmptyItems), errors.Is(err, services.ErrBadItem):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return storeError(c, "order.create", err, true)
	}
	applog.Audit(c, "order.create", map[string]any{"user_id": claims.UserID, "count": len(orders)})
	return c.Status(fiber.StatusCreated).JSON(orders)
}

// probePhone pulls a top-level phone field out of a single-order body for
// early validation; the service validates items themselves.
func probePhone(body []byte) string {
	var probe struct {
		Phone string `json:"phone"`
	}
	_ = json.Unmarshal(body, &probe)
	return probe.Phone
}

// UpdateItems rewrites an order's quantities, adjusting product stock by the
// signed delta of each change. Invalid entries are skipped, not rejected.
func (h *OrderHandler) UpdateItems(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	var body struct {
		UpdatedItems domain.OrderItems `json:"updatedItems"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid items payload")
	}
	skipped, err := h.Svc.UpdateItems(id, body.UpdatedItems)
	if err != nil {
		return storeError(c, "order.items", err, false)
	}
	applog.Audit(c, "order.items", map[string]any{"id": id, "skipped": skipped})
	return c.JSON(fiber.Map{"success": true, "skipped": skipped})
}

// Update replaces the mutable order fields wholesale (status changes live
// here). Stock is not touched; use the items endpoint for quantity edits.
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	existing, err := h.Orders.Get(id)
	if err != nil {
		return storeError(c, "order.update", err, false)
	}
	if err := json.Unmarshal(c.Body(), &existing); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid order payload")
	}
	o, err := h.Orders.Update(id, existing)
	if err != nil {
		return storeError(c, "order.update", err, false)
	}
	applog.Audit(c, "order.update", map[string]any{"id": id, "status": o.Status})
	return c.JSON(o)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	if err := h.Orders.Delete(id); err != nil {
		return storeError(c, "order.delete", err, false)
	}
	applog.Audit(c, "order.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
