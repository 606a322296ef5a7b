package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func GetClientID(c *fiber.Ctx) int64 {
	clientID, _ := strconv.Atoi(c.Locals("client_id").(string))
	return int64(clientID)
}
