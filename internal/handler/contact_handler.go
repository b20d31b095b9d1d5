package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kma-contact-api/internal/dto"
	"github.com/noah-isme/kma-contact-api/internal/service"
	"github.com/noah-isme/kma-contact-api/internal/utils"
)

// ContactHandler handles contact submissions.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes.
func (h *ContactHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(middlewares, h.submit)
	router.Post("", handlers...)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var payload dto.ContactRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return utils.Fail(c, fiber.StatusUnprocessableEntity, "validation failed", validationErr.Violations)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to process contact submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit contact form")
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
