package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/database"
	"github.com/varsityrank/api/utils/response"
)

// HandleCheckHealth reports API and database liveness
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Database unreachable")
		}
		return response.Success(c, fiber.Map{"status": "ok"})
	}
}

// HandleHeartbeat answers a partner deployment's liveness ping
func HandleHeartbeat(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "active",
		"server":    "varsityrank-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
