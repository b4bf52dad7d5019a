// middleware/user_context.go
package middleware

import (
	"strings"

	"recipe-gamification/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserContextMiddleware extracts user identity and roles set by Gateway.
// Every route it guards needs X-User-ID.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			utils.Log().Warn("❌ [USER_CTX] X-User-ID required but missing", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)

		utils.Log().Debug("👤 [USER_CTX] resolved", zap.String("user_id", userID), zap.Strings("roles", roles), zap.String("path", c.Path()))
		return c.Next()
	}
}

// RequireRole rejects requests whose user lacks role. Must run after UserContextMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		utils.Log().Warn("🚫 [USER_CTX] role required", zap.String("role", role), zap.String("path", c.Path()))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}
