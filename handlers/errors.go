// handlers/errors.go
package handlers

import (
	"errors"
	"log/slog"

	"prono-league/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error kind onto its HTTP status. Storage and
// unexpected errors are logged and hidden from the client.
func respondError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrExportDisabled):
		status = fiber.StatusServiceUnavailable
	}

	if status == fiber.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// errorHandler renders errors that escape the handlers (unknown routes, panics
// caught by recover) in the same JSON shape.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return respondError(c, logger, err)
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
