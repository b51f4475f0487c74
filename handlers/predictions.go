// handlers/predictions.go
package handlers

import (
	"log/slog"

	"prono-league/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPredictionRoutes(api fiber.Router, predictionService *services.PredictionService, logger *slog.Logger) {
	api.Post("/predictions", func(c *fiber.Ctx) error {
		var in services.SubmitPredictionInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}

		prediction, err := predictionService.Submit(c.UserContext(), in)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "prediction saved",
			"prediction": newPredictionResponse(prediction),
		})
	})

	api.Get("/predictions", func(c *fiber.Ctx) error {
		predictions, err := predictionService.List(c.UserContext(), services.PredictionFilter{
			UserID:  c.Query("userId"),
			MatchID: c.Query("matchId"),
		})
		if err != nil {
			return respondError(c, logger, err)
		}

		res := make([]predictionResponse, len(predictions))
		for i := range predictions {
			res[i] = newPredictionResponse(&predictions[i])
		}
		return c.JSON(fiber.Map{"predictions": res})
	})
}
