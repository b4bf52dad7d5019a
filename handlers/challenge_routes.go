// handlers/challenge_routes.go
package handlers

import (
	"recipe-gamification/middleware"
	"recipe-gamification/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, engines *services.EngineFactory) {
	challenges := app.Group("/user/challenges", middleware.UserContextMiddleware())

	challenges.Get("/daily", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		return c.JSON(fiber.Map{
			"challenges": engine.Challenges.DailyChallenges(),
			"progress":   engine.Challenges.DailyProgress(),
		})
	})

	challenges.Get("/weekly", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		return c.JSON(fiber.Map{
			"challenges": engine.Challenges.WeeklyChallenges(),
			"progress":   engine.Challenges.WeeklyProgress(),
		})
	})

	challenges.Post("/:id/complete", func(c *fiber.Ctx) error {
		scope := c.Query("scope", "daily")
		if scope != "daily" && scope != "weekly" {
			return errorJSON(c, fiber.StatusBadRequest, "scope must be daily or weekly", nil)
		}

		engine := engines.ForUser(currentUserID(c))
		inst, xp, ok := engine.CompleteChallenge(c.Params("id"), scope == "weekly")
		if !ok {
			return errorJSON(c, fiber.StatusConflict, "challenge already completed or not active", nil)
		}
		return c.JSON(fiber.Map{
			"challenge":  inst,
			"xp":         xp,
			"new_badges": engine.CheckBadges(),
		})
	})
}
