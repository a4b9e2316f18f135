package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codetrack-dev/codetrack-api/internal/config"
	"github.com/codetrack-dev/codetrack-api/internal/handler"
	"github.com/codetrack-dev/codetrack-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	PlatformHandler   *handler.PlatformHandler
	ProblemHandler    *handler.ProblemHandler
	SubmissionHandler *handler.SubmissionHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}

	if deps.PlatformHandler != nil {
		platforms := api.Group("/platforms", jwtMiddleware)
		deps.PlatformHandler.Register(platforms)
	}

	if deps.ProblemHandler != nil {
		problems := api.Group("/problems", jwtMiddleware)
		deps.ProblemHandler.Register(problems)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}
}
