package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dobryakk5/zavod/internal/service"
	"github.com/dobryakk5/zavod/internal/transfer"
)

type ScheduleHandler struct {
	s service.ScheduleService
}

func NewScheduleHandler(service service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{s: service}
}

func (h *ScheduleHandler) CreateSchedule(c *fiber.Ctx) error {
	clientID := GetClientID(c)

	var sc transfer.ScheduleCreation
	if err := c.BodyParser(&sc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	scheduleID, err := h.s.Create(c.Context(), clientID, &sc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": scheduleID,
	})
}

func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	clientID := GetClientID(c)
	postID := c.QueryInt("post_id", 0)

	schedules, err := h.s.ListForPost(c.Context(), clientID, int64(postID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list schedules",
		})
	}

	return c.Status(fiber.StatusOK).JSON(schedules)
}

func (h *ScheduleHandler) RetrySchedule(c *fiber.Ctx) error {
	clientID := GetClientID(c)
	scheduleID := c.QueryInt("id", 0)

	err := h.s.Retry(c.Context(), clientID, int64(scheduleID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
