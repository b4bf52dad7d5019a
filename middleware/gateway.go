// middleware/gateway.go
package middleware

import (
	"strings"

	"recipe-gamification/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GatewayAuthMiddleware validates the Bearer token from the Gateway
func GatewayAuthMiddleware(expectedToken string) fiber.Handler {
	if expectedToken == "" {
		utils.Log().Fatal("❌ [GATEWAY_AUTH] service token is empty — service cannot authenticate Gateway")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			utils.Log().Warn("🚫 [GATEWAY_AUTH] Missing Authorization header", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		// Parse "Bearer <token>", raw tokens are accepted too
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token != expectedToken {
			utils.Log().Warn("❌ [GATEWAY_AUTH] Invalid token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}
