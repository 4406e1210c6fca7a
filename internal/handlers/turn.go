package handlers

import (
	"errors"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"mira/internal/turn"
)

// TurnHandler runs the full voice pipeline for an uploaded clip
type TurnHandler struct {
	controller *turn.Controller
	uploadDir  string
}

// NewTurnHandler creates a new turn handler
func NewTurnHandler(controller *turn.Controller, uploadDir string) *TurnHandler {
	return &TurnHandler{controller: controller, uploadDir: uploadDir}
}

// Run accepts a recorded clip and drives it through transcription, intent
// parsing, dispatch and speech. A busy pipeline returns 409.
func (h *TurnHandler) Run(c *fiber.Ctx) error {
	clipPath, err := saveClip(c, h.uploadDir)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer os.Remove(clipPath)

	outcome, err := h.controller.RunTurn(c.Context(), clipPath)
	if err != nil {
		if errors.Is(err, turn.ErrBusy) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A turn is already in progress",
			})
		}
		log.Printf("❌ [TURN] Pipeline failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Turn failed",
			"details": err.Error(),
		})
	}

	return c.JSON(outcome)
}
