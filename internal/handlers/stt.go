package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mira/internal/audio"
)

// STTHandler handles clip transcription requests
type STTHandler struct {
	transcriber *audio.Transcriber
	uploadDir   string
}

// NewSTTHandler creates a new speech-to-text handler
func NewSTTHandler(transcriber *audio.Transcriber, uploadDir string) *STTHandler {
	return &STTHandler{transcriber: transcriber, uploadDir: uploadDir}
}

// saveClip writes the uploaded recording to the upload directory under a
// unique name and returns its path.
func saveClip(c *fiber.Ctx, uploadDir string) (string, error) {
	file, err := c.FormFile("audio")
	if err != nil {
		return "", fmt.Errorf("no audio file uploaded")
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".webm" // browser recordings default
	}
	clipPath := filepath.Join(uploadDir, fmt.Sprintf("clip_%s%s", uuid.New().String(), ext))

	if err := c.SaveFile(file, clipPath); err != nil {
		return "", fmt.Errorf("failed to save clip: %w", err)
	}
	return clipPath, nil
}

// Transcribe converts an uploaded clip to text.
// Not-ready and heard-nothing conditions are 200 responses with status=false
// so the caller can speak the message rather than treat it as a failure.
func (h *STTHandler) Transcribe(c *fiber.Ctx) error {
	clipPath, err := saveClip(c, h.uploadDir)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer os.Remove(clipPath)

	log.Printf("🎙️ [STT] Transcribing clip: %s", clipPath)

	text, err := h.transcriber.Transcribe(c.Context(), clipPath)
	switch {
	case errors.Is(err, audio.ErrNotReady):
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": false, "message": "Sorry Sir, file is not ready",
		})
	case errors.Is(err, audio.ErrHeardNothing):
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": false, "message": "Sorry Sir, I didn't listen anything",
		})
	case err != nil:
		log.Printf("❌ [STT] Transcription failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Transcription failed",
			"details": err.Error(),
		})
	}

	log.Printf("✅ [STT] Transcript: %s", text)
	return c.JSON(fiber.Map{"status": true, "text": text})
}
