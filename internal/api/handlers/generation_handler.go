package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dobryakk5/zavod/internal/service"
	"github.com/dobryakk5/zavod/internal/transfer"
)

type GenerationHandler struct {
	s service.GenerationService
}

func NewGenerationHandler(service service.GenerationService) *GenerationHandler {
	return &GenerationHandler{s: service}
}

// RunBatch blocks until the whole batch has drained, the report covers
// every post and video that was attempted.
func (h *GenerationHandler) RunBatch(c *fiber.Ctx) error {
	clientID := GetClientID(c)

	var req transfer.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	report, err := h.s.GenerateFromKeywordSet(c.Context(), clientID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
