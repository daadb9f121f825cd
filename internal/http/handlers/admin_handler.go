package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "souq/internal/log"
	"souq/internal/services"
	"souq/internal/validate"
)

type AdminHandler struct {
	Auth *services.AuthService
}

type adminBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Create registers a new admin account. Only an existing admin can call it.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var body adminBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if body.Username == "" {
		return jsonError(c, fiber.StatusBadRequest, "username is required")
	}
	if !validate.Password(body.Password) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-72 characters")
	}
	a, err := h.Auth.CreateAdmin(body.Username, body.Password)
	if err != nil {
		return storeError(c, "admin.create", err, false)
	}
	applog.Audit(c, "admin.create", map[string]any{"admin_id": a.ID, "username": a.Username})
	return c.Status(fiber.StatusCreated).JSON(a)
}

// Login issues the long-lived admin token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var body adminBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	tok, a, err := h.Auth.LoginAdmin(body.Username, body.Password)
	switch {
	case errors.Is(err, services.ErrUnknownIdentity):
		applog.Security(c, "admin.login.unknown", map[string]any{"username": body.Username})
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, "admin.login.denied", map[string]any{"username": body.Username})
		return jsonError(c, fiber.StatusUnauthorized, err.Error())
	case err != nil:
		return storeError(c, "admin.login", err, false)
	}
	applog.Audit(c, "admin.login", map[string]any{"admin_id": a.ID})
	return c.JSON(fiber.Map{"success": true, "token": tok})
}
