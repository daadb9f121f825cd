package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "souq/internal/log"
	"souq/internal/repos"
	"souq/internal/services"
	"souq/internal/validate"
)

type UserHandler struct {
	Users *repos.UserRepo
	Auth  *services.AuthService
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return storeError(c, "user.list", err, true)
	}
	return c.JSON(users)
}

func (h *UserHandler) ListAdmin(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	total, err := h.Users.Count()
	if err != nil {
		return storeError(c, "user.list", err, false)
	}
	users, err := h.Users.ListPaged(pageSize, (page-1)*pageSize)
	if err != nil {
		return storeError(c, "user.list", err, false)
	}
	return c.JSON(pageEnvelope(users, total, page, pageSize))
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	u, err := h.Users.Get(id)
	if err != nil {
		return storeError(c, "user.get", err, true)
	}
	return c.JSON(u)
}

type registerBody struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and signs the user in.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var body registerBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	email, ok := validate.Email(body.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	if !validate.Password(body.Password) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-72 characters")
	}

	u, err := h.Auth.RegisterUser(body.Name, body.Username, email, body.Password)
	if err != nil {
		return storeError(c, "user.register", err, true)
	}
	tok, _, err := h.Auth.LoginUser(email, body.Password)
	if err != nil {
		return storeError(c, "user.register", err, true)
	}
	applog.Audit(c, "user.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "token": tok, "user": u})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login keeps the unknown-account/wrong-password split: 404 vs 401.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	tok, u, err := h.Auth.LoginUser(body.Email, body.Password)
	switch {
	case errors.Is(err, services.ErrUnknownIdentity):
		applog.Security(c, "user.login.unknown", nil)
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, "user.login.denied", map[string]any{"user_id": u.ID})
		return jsonError(c, fiber.StatusUnauthorized, err.Error())
	case err != nil:
		return storeError(c, "user.login", err, true)
	}
	applog.Audit(c, "user.login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"success": true, "token": tok, "user": u})
}

type userPatchBody struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	var body userPatchBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	patch := repos.UserPatch{Name: body.Name, Username: body.Username}
	if body.Email != nil {
		email, ok := validate.Email(*body.Email)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid email")
		}
		patch.Email = &email
	}
	if body.Password != nil {
		if !validate.Password(*body.Password) {
			return jsonError(c, fiber.StatusBadRequest, "password must be 8-72 characters")
		}
		hash, err := h.Auth.HashPassword(*body.Password)
		if err != nil {
			return storeError(c, "user.update", err, true)
		}
		patch.Hash = &hash
	}

	u, err := h.Users.Patch(id, patch)
	if err != nil {
		return storeError(c, "user.update", err, true)
	}
	applog.Audit(c, "user.update", map[string]any{"user_id": id})
	return c.JSON(u)
}

// Delete removes the account with its ratings and orders.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if err := h.Users.DeleteCascade(id); err != nil {
		return storeError(c, "user.delete", err, true)
	}
	applog.Audit(c, "user.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"success": true})
}
