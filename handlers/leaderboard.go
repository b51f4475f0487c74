// handlers/leaderboard.go
package handlers

import (
	"log/slog"

	"prono-league/services"

	"github.com/gofiber/fiber/v2"
)

const maxLeaderboardLimit = 500

func SetupLeaderboardRoutes(api fiber.Router, leaderboardService *services.LeaderboardService, logger *slog.Logger) {
	api.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		if limit < 0 || limit > maxLeaderboardLimit {
			return badRequest(c, "limit must be between 0 and 500")
		}

		entries, err := leaderboardService.Standings(c.UserContext(), limit)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})
}

// SetupAdminRoutes registers maintenance operations under /admin. Every route
// in the group goes through the admin middleware.
func SetupAdminRoutes(api fiber.Router, leaderboardService *services.LeaderboardService, recalculator *services.Recalculator, admin fiber.Handler, logger *slog.Logger) {
	group := api.Group("/admin", admin)

	group.Post("/leaderboard/export", func(c *fiber.Ctx) error {
		export, err := leaderboardService.Export(c.UserContext())
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"export": export})
	})

	group.Post("/totals/audit", func(c *fiber.Ctx) error {
		result, err := recalculator.RecalculateAllTotals(c.UserContext())
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"audit": result})
	})
}
