package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// adminKey marks requests that passed AdminTokenMiddleware.
const adminKey = "is_admin"

// AdminTokenMiddleware guards administrative routes with a static bearer token.
// An empty token locks the routes entirely.
func AdminTokenMiddleware(expectedToken string, logger *slog.Logger) fiber.Handler {
	expected := []byte(strings.TrimSpace(expectedToken))

	return func(c *fiber.Ctx) error {
		if len(expected) == 0 {
			logger.Warn("admin route called but no admin token is configured", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin access is not configured",
			})
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.Info("admin token missing", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin token missing",
			})
		}

		// Accept "Bearer <token>" as well as the raw token.
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			logger.Warn("invalid admin token", "path", c.Path(), "ip", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}

		c.Locals(adminKey, true)
		return c.Next()
	}
}
