package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/ga"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthIndexAction handles the health check endpoint
func HealthIndexAction(c *fiber.Ctx) error {
	return c.JSON(HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// ConnectionTestAction probes the analytics backend with a minimal report.
// The probe result is always 200; success or failure is in the body.
func ConnectionTestAction(client *ga.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(client.TestConnection(c.UserContext()))
	}
}
