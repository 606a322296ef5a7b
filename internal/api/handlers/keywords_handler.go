package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dobryakk5/zavod/internal/service"
	"github.com/dobryakk5/zavod/internal/transfer"
)

type KeywordSetHandler struct {
	s service.KeywordSetService
}

func NewKeywordSetHandler(service service.KeywordSetService) *KeywordSetHandler {
	return &KeywordSetHandler{s: service}
}

func (h *KeywordSetHandler) CreateSet(c *fiber.Ctx) error {
	clientID := GetClientID(c)

	var kc transfer.KeywordSetCreation
	if err := c.BodyParser(&kc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	setID, err := h.s.CreateSet(c.Context(), clientID, &kc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": setID,
	})
}

func (h *KeywordSetHandler) GenerateSet(c *fiber.Ctx) error {
	clientID := GetClientID(c)
	setID := c.QueryInt("id", 0)

	err := h.s.GenerateSet(c.Context(), clientID, int64(setID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *KeywordSetHandler) ListSets(c *fiber.Ctx) error {
	clientID := GetClientID(c)

	sets, err := h.s.List(c.Context(), clientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list keyword sets",
		})
	}

	return c.Status(fiber.StatusOK).JSON(sets)
}
