package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kma-contact-api/internal/service"
)

// DiagnosticsHandler serves the connectivity report.
type DiagnosticsHandler struct {
	service service.DiagnosticsService
}

// NewDiagnosticsHandler constructs the handler.
func NewDiagnosticsHandler(service service.DiagnosticsService) *DiagnosticsHandler {
	return &DiagnosticsHandler{service: service}
}

// Register attaches routes.
func (h *DiagnosticsHandler) Register(router fiber.Router) {
	router.Get("", h.probe)
}

func (h *DiagnosticsHandler) probe(c *fiber.Ctx) error {
	return c.JSON(h.service.Probe(c.UserContext()))
}
