package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kma-contact-api/internal/config"
	"github.com/noah-isme/kma-contact-api/internal/dto"
)

// HealthCheck reports liveness. It has no dependencies.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	}
}

// Root announces the running service.
func Root(cfg config.Config) fiber.Handler {
	message := fmt.Sprintf("%s running", cfg.AppName)
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.RootResponse{Message: message})
	}
}
