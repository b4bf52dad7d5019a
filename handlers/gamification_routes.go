// handlers/gamification_routes.go
package handlers

import (
	"errors"
	"strconv"
	"time"

	"recipe-gamification/middleware"
	"recipe-gamification/models"
	"recipe-gamification/services"

	"github.com/gofiber/fiber/v2"
)

type activityReq struct {
	Recipe models.RecipeContext `json:"recipe"`
	Rating int                  `json:"rating" validate:"omitempty,min=1,max=5"`
	Meals  int                  `json:"meals" validate:"omitempty,min=1,max=50"`
}

func SetupGamificationRoutes(app *fiber.App, engines *services.EngineFactory, snapshots *services.SnapshotService, streamInterval time.Duration) {
	// The gateway forwards /api/v1/gamification/user/... -> /user/...
	gamification := app.Group("/user/gamification", middleware.UserContextMiddleware())

	gamification.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(engines.ForUser(currentUserID(c)).Summary())
	})

	gamification.Get("/stream", streamSummary(engines, streamInterval))

	gamification.Post("/backup", func(c *fiber.Ctx) error {
		if snapshots == nil {
			return errorJSON(c, fiber.StatusServiceUnavailable, "backups are not configured", nil)
		}
		snap, err := snapshots.Backup(c.UserContext(), currentUserID(c))
		if err != nil {
			return errorJSON(c, fiber.StatusBadGateway, "backup failed", err)
		}
		return c.JSON(fiber.Map{
			"snapshot_id": snap.ID,
			"taken_at":    snap.TakenAt,
			"records":     len(snap.Records),
		})
	})

	gamification.Post("/restore", func(c *fiber.Ctx) error {
		if snapshots == nil {
			return errorJSON(c, fiber.StatusServiceUnavailable, "backups are not configured", nil)
		}
		snap, err := snapshots.Restore(c.UserContext(), currentUserID(c))
		if errors.Is(err, services.ErrSnapshotNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "no backup found", nil)
		}
		if err != nil {
			return errorJSON(c, fiber.StatusBadGateway, "restore failed", err)
		}
		return c.JSON(fiber.Map{
			"snapshot_id": snap.ID,
			"taken_at":    snap.TakenAt,
			"records":     len(snap.Records),
		})
	})

	xp := app.Group("/user/xp", middleware.UserContextMiddleware())

	xp.Get("/", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		return c.JSON(fiber.Map{
			"progress":   engine.XP.Progress(),
			"today_xp":   engine.XP.TodayXP(),
			"milestones": services.LevelMilestones,
		})
	})

	xp.Get("/history", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil || limit < 1 || limit > services.MaxXPHistory {
			limit = 20
		}
		return c.JSON(fiber.Map{
			"entries": engines.ForUser(currentUserID(c)).XP.History(limit),
		})
	})

	activity := app.Group("/user/activity", middleware.UserContextMiddleware())

	activity.Post("/:action", func(c *fiber.Ctx) error {
		var req activityReq
		if ok, err := parseBody(c, &req); !ok {
			return err
		}
		engine := engines.ForUser(currentUserID(c))

		var res services.ActivityResult
		switch c.Params("action") {
		case "view":
			res = engine.TrackRecipeView(req.Recipe)
		case "cook":
			res = engine.TrackRecipeCook(req.Recipe)
		case "rate":
			if req.Rating == 0 {
				return errorJSON(c, fiber.StatusBadRequest, "rating is required", nil)
			}
			res = engine.TrackRecipeRating(req.Recipe, req.Rating)
		case "share":
			res = engine.TrackShare(req.Recipe)
		case "meal-prep":
			if req.Meals == 0 {
				return errorJSON(c, fiber.StatusBadRequest, "meals is required", nil)
			}
			res = engine.TrackMealPrep(req.Meals)
		default:
			return errorJSON(c, fiber.StatusNotFound, "unknown action", nil)
		}
		return c.JSON(res)
	})

	streak := app.Group("/user/streak", middleware.UserContextMiddleware())

	streak.Get("/", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		return c.JSON(fiber.Map{
			"streak":            engine.Streaks.View(),
			"freeze_available":  engine.Streaks.FreezeAvailable(),
			"recover_available": engine.Streaks.RecoveryAvailable(),
		})
	})

	streak.Post("/freeze", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		if !engine.Streaks.FreezeStreak() {
			return errorJSON(c, fiber.StatusConflict, "streak freeze not available", nil)
		}
		return c.JSON(fiber.Map{"streak": engine.Streaks.View()})
	})

	streak.Post("/recover", func(c *fiber.Ctx) error {
		engine := engines.ForUser(currentUserID(c))
		if !engine.Streaks.RecoverStreak() {
			return errorJSON(c, fiber.StatusConflict, "streak recovery not available", nil)
		}
		return c.JSON(fiber.Map{"streak": engine.Streaks.View()})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required"`
			XP     int    `json:"xp" validate:"required,min=1,max=100000"`
			Reason string `json:"reason" validate:"max=255"`
		}
		var req Req
		if ok, err := parseBody(c, &req); !ok {
			return err
		}
		reason := req.Reason
		if reason == "" {
			reason = "admin_grant"
		}

		res := engines.ForUser(req.UserID).XP.AddXP(req.XP, reason)
		if res.AmountAdded == 0 {
			return errorJSON(c, fiber.StatusInternalServerError, "XP award failed", nil)
		}
		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"result":  res,
		})
	})
}
