package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"mira/internal/audio"
	"mira/internal/services"
)

// SpeakHandler handles text-to-speech API requests
type SpeakHandler struct {
	speaker *audio.Speaker
}

// NewSpeakHandler creates a new speak handler
func NewSpeakHandler(speaker *audio.Speaker) *SpeakHandler {
	return &SpeakHandler{speaker: speaker}
}

type speakRequest struct {
	Text string `json:"text"`
}

// Speak synthesizes the given text and returns MP3 bytes
func (h *SpeakHandler) Speak(c *fiber.Ctx) error {
	var req speakRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "empty text",
		})
	}

	if h.speaker == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Speech synthesis not configured",
		})
	}

	if m := services.GetMetrics(); m != nil {
		m.RecordSpeechRequest()
	}

	mp3, err := h.speaker.Synthesize(req.Text)
	if err != nil {
		log.Printf("❌ [TTS] Synthesis failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "tts_failed",
			"details": err.Error(),
		})
	}

	c.Set("Content-Type", "audio/mpeg")
	return c.Send(mp3)
}
