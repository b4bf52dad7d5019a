// handlers/badge_routes.go
package handlers

import (
	"recipe-gamification/middleware"
	"recipe-gamification/models"
	"recipe-gamification/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBadgeRoutes(app *fiber.App, engines *services.EngineFactory) {
	// Public catalog
	app.Get("/badges", func(c *fiber.Ctx) error {
		defs := services.BadgeCatalog
		if r := c.Query("rarity"); r != "" {
			defs = services.BadgesByRarity(models.Rarity(r))
		}
		out := make([]fiber.Map, 0, len(defs))
		for _, b := range defs {
			out = append(out, fiber.Map{
				"badge":    b.Info(false),
				"gradient": services.RarityGradient(b.Rarity),
			})
		}
		return c.JSON(out)
	})

	app.Get("/badges/:id", func(c *fiber.Ctx) error {
		b, ok := services.BadgeByID(c.Params("id"))
		if !ok {
			return errorJSON(c, fiber.StatusNotFound, "badge not found", nil)
		}
		return c.JSON(fiber.Map{
			"badge":    b.Info(false),
			"gradient": services.RarityGradient(b.Rarity),
		})
	})

	badges := app.Group("/user/badges", middleware.UserContextMiddleware())

	badges.Get("/", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		return c.JSON(fiber.Map{
			"badges":   engine.Badges.AllBadges(),
			"unlocked": engine.Badges.Unlocked(),
		})
	})

	badges.Post("/check", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"new_badges": engines.ForUser(currentUserID(c)).CheckBadges(),
		})
	})
}
