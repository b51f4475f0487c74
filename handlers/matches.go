// handlers/matches.go
package handlers

import (
	"log/slog"

	"prono-league/services"

	"github.com/gofiber/fiber/v2"
)

// SetupMatchRoutes registers the public match listing and the admin-only
// create, result and recalculation endpoints.
func SetupMatchRoutes(api fiber.Router, matchService *services.MatchService, admin fiber.Handler, logger *slog.Logger) {
	api.Get("/matches", func(c *fiber.Ctx) error {
		filter := services.MatchFilter{
			Upcoming: c.QueryBool("upcoming", false),
			Finished: c.QueryBool("finished", false),
		}
		matches, err := matchService.List(c.UserContext(), filter)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"matches": newMatchResponses(matches)})
	})

	api.Get("/matches/:id", func(c *fiber.Ctx) error {
		match, err := matchService.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"match": newMatchResponse(match)})
	})

	api.Post("/matches", admin, func(c *fiber.Ctx) error {
		var in services.CreateMatchInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}

		match, err := matchService.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "match created",
			"match":   newMatchResponse(match),
		})
	})

	// Result entry. The body carries the final score the same way predictions do.
	api.Patch("/matches/:id", admin, func(c *fiber.Ctx) error {
		var body struct {
			FinalScore *services.ResultInput `json:"finalScore"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "invalid request body")
		}
		if body.FinalScore == nil {
			return badRequest(c, "finalScore is required")
		}

		match, summary, err := matchService.SetResult(c.UserContext(), c.Params("id"), *body.FinalScore)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{
			"message":       "result recorded and points recalculated",
			"match":         newMatchResponse(match),
			"recalculation": summary,
		})
	})

	api.Post("/matches/:id/recalculate", admin, func(c *fiber.Ctx) error {
		summary, err := matchService.Recalculate(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"recalculation": summary})
	})
}
