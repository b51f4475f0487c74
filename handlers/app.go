// handlers/app.go
package handlers

import (
	"log/slog"

	"prono-league/middleware"
	"prono-league/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the routes call into.
type Services struct {
	Users        *services.UserService
	Matches      *services.MatchService
	Predictions  *services.PredictionService
	Leaderboard  *services.LeaderboardService
	Recalculator *services.Recalculator
}

type AppOptions struct {
	AllowedOrigins string
	AdminToken     string
	Logger         *slog.Logger
	// Gatherer backs /metrics. The route is not registered when nil.
	Gatherer prometheus.Gatherer
}

// NewApp builds the fiber application with middleware and every route.
func NewApp(svc Services, opts AppOptions) *fiber.App {
	logger := opts.Logger

	app := fiber.New(fiber.Config{
		AppName:      "prono-league",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))

	origins := opts.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PATCH,OPTIONS,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
		MaxAge:        86400, // 24 hours
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	admin := middleware.AdminTokenMiddleware(opts.AdminToken, logger)
	api := app.Group("/api")

	SetupUserRoutes(api, svc.Users, logger)
	SetupMatchRoutes(api, svc.Matches, admin, logger)
	SetupPredictionRoutes(api, svc.Predictions, logger)
	SetupLeaderboardRoutes(api, svc.Leaderboard, logger)
	SetupAdminRoutes(api, svc.Leaderboard, svc.Recalculator, admin, logger)

	return app
}
