// handlers/users.go
package handlers

import (
	"log/slog"

	"prono-league/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(api fiber.Router, userService *services.UserService, logger *slog.Logger) {
	api.Post("/users", func(c *fiber.Ctx) error {
		var in services.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}

		user, err := userService.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "user created",
			"user":    user,
		})
	})

	api.Get("/users", func(c *fiber.Ctx) error {
		users, err := userService.List(c.UserContext())
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"users": users})
	})

	api.Get("/users/:id", func(c *fiber.Ctx) error {
		user, err := userService.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(fiber.Map{"user": user})
	})
}
