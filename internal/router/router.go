package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kma-contact-api/internal/config"
	"github.com/noah-isme/kma-contact-api/internal/handler"
	"github.com/noah-isme/kma-contact-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContactHandler     *handler.ContactHandler
	DiagnosticsHandler *handler.DiagnosticsHandler
	ContactRateLimit   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/", handler.Root(cfg))
	app.Get("/health", handler.HealthCheck())
	app.Get("/metrics", observability.MetricsHandler())

	if deps.DiagnosticsHandler != nil {
		deps.DiagnosticsHandler.Register(app.Group("/test"))
	}

	if deps.ContactHandler != nil {
		var limits []fiber.Handler
		if deps.ContactRateLimit != nil {
			limits = append(limits, deps.ContactRateLimit)
		}
		deps.ContactHandler.Register(app.Group("/api/contact"), limits...)
	}
}
