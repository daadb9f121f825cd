package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "souq/internal/log"
	"souq/internal/services"
)

const claimsKey = "claims"

func bearerToken(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tok, tok != ""
}

// RequireUser admits any authenticated account (user or admin). A missing or
// malformed header is 401; a token that fails verification is 403.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := bearerToken(c)
		if !ok {
			applog.Security(c, "auth.missing_token", nil)
			return jsonError(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := auth.Verify(tok)
		if err != nil {
			applog.Security(c, "auth.bad_token", nil)
			return jsonError(c, fiber.StatusForbidden, "invalid or expired token")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin additionally requires the admin role.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := bearerToken(c)
		if !ok {
			applog.Security(c, "auth.missing_token", nil)
			return jsonError(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := auth.Verify(tok)
		if err != nil {
			applog.Security(c, "auth.bad_token", nil)
			return jsonError(c, fiber.StatusForbidden, "invalid or expired token")
		}
		if claims.Role != services.RoleAdmin {
			applog.Security(c, "auth.not_admin", map[string]any{"user_id": claims.UserID})
			return jsonError(c, fiber.StatusForbidden, "admin access required")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// claimsFrom reads the claims stored by the auth middleware.
func claimsFrom(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*services.Claims)
	return claims, ok
}
