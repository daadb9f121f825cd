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

type VoucherHandler struct {
	Vouchers *repos.VoucherRepo
	Svc      *services.VoucherService
}

func (h *VoucherHandler) List(c *fiber.Ctx) error {
	vouchers, err := h.Vouchers.List()
	if err != nil {
		return storeError(c, "voucher.list", err, true)
	}
	return c.JSON(vouchers)
}

func (h *VoucherHandler) ListAdmin(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	total, err := h.Vouchers.Count()
	if err != nil {
		return storeError(c, "voucher.list", err, false)
	}
	vouchers, err := h.Vouchers.ListPaged(pageSize, (page-1)*pageSize)
	if err != nil {
		return storeError(c, "voucher.list", err, false)
	}
	return c.JSON(pageEnvelope(vouchers, total, page, pageSize))
}

func (h *VoucherHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid voucher id")
	}
	v, err := h.Vouchers.Get(id)
	if err != nil {
		return storeError(c, "voucher.get", err, true)
	}
	return c.JSON(v)
}

// GetByCode looks up an active, unexpired voucher without consuming a usage.
func (h *VoucherHandler) GetByCode(c *fiber.Ctx) error {
	code, ok := validate.Code(c.Params("code"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid voucher code")
	}
	v, err := h.Svc.GetByCode(code)
	if errors.Is(err, services.ErrVoucherUnusable) {
		return jsonError(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return storeError(c, "voucher.code", err, true)
	}
	return c.JSON(v)
}

// Use burns one usage of the voucher and returns its post-use state.
func (h *VoucherHandler) Use(c *fiber.Ctx) error {
	code, ok := validate.Code(c.Params("code"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid voucher code")
	}
	v, err := h.Svc.Use(code)
	if errors.Is(err, services.ErrVoucherUnusable) {
		return jsonError(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return storeError(c, "voucher.use", err, true)
	}
	applog.Info(c, "voucher.use", map[string]any{"code": code, "active": v.Active})
	return c.JSON(v)
}

// Create accepts a single voucher or a batch, active by default.
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	out := make([]domain.Voucher, 0, 1)
	for _, raw := range splitBatch(c.Body()) {
		v := domain.Voucher{Active: true}
		if err := json.Unmarshal(raw, &v); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid voucher payload")
		}
		if v.Code == "" {
			return jsonError(c, fiber.StatusBadRequest, "voucher code is required")
		}
		created, err := h.Vouchers.Create(v)
		if err != nil {
			return storeError(c, "voucher.create", err, false)
		}
		out = append(out, created)
	}
	applog.Audit(c, "voucher.create", map[string]any{"count": len(out)})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *VoucherHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid voucher id")
	}
	var patch domain.VoucherPatch
	if err := c.BodyParser(&patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid voucher payload")
	}
	v, err := h.Vouchers.Patch(id, patch)
	if err != nil {
		return storeError(c, "voucher.update", err, false)
	}
	applog.Audit(c, "voucher.update", map[string]any{"id": id})
	return c.JSON(v)
}

// Delete removes the voucher together with the orders that reference it.
func (h *VoucherHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid voucher id")
	}
	if err := h.Vouchers.Delete(id); err != nil {
		return storeError(c, "voucher.delete", err, false)
	}
	applog.Audit(c, "voucher.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
