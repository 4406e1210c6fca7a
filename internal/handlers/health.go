package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"mira/internal/turn"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	controller *turn.Controller
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller *turn.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"state":     h.controller.CurrentState().String(),
		"busy":      h.controller.Busy(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
