package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dobryakk5/zavod/internal/service"
)

type TrendsHandler struct {
	s service.TrendsService
}

func NewTrendsHandler(service service.TrendsService) *TrendsHandler {
	return &TrendsHandler{s: service}
}

func (h *TrendsHandler) RefreshTrends(c *fiber.Ctx) error {
	clientID := GetClientID(c)

	trends, err := h.s.Refresh(c.Context(), clientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(trends)
}

func (h *TrendsHandler) ListTrends(c *fiber.Ctx) error {
	clientID := GetClientID(c)

	trends, err := h.s.List(c.Context(), clientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list trends",
		})
	}

	return c.Status(fiber.StatusOK).JSON(trends)
}
