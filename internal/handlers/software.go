package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mira/internal/launcher"
)

// SoftwareHandler handles native application launch requests
type SoftwareHandler struct {
	launcher *launcher.Service
}

// NewSoftwareHandler creates a new software handler
func NewSoftwareHandler(l *launcher.Service) *SoftwareHandler {
	return &SoftwareHandler{launcher: l}
}

type openSoftwareRequest struct {
	SoftwareName string `json:"softwareName"`
}

// Open resolves a spoken application name and launches it.
// Unknown names and launch failures are success=false responses, not errors.
func (h *SoftwareHandler) Open(c *fiber.Ctx) error {
	var req openSoftwareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Software name is required.",
		})
	}

	if strings.TrimSpace(req.SoftwareName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Software name is required.",
		})
	}

	result := h.launcher.Launch(req.SoftwareName)
	return c.JSON(fiber.Map{
		"success": result.Success,
		"message": result.Message,
	})
}
