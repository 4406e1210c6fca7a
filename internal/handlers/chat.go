package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"mira/internal/models"
	"mira/internal/services"
)

// ChatHandler handles conversation history API requests
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// List returns the recent conversation window, oldest first
func (h *ChatHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	messages, err := h.chat.ListRecent(limit)
	if err != nil {
		log.Printf("❌ [CHAT-API] Failed to list messages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load chat history",
		})
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(messages)
}

// Append stores one turn message
func (h *ChatHandler) Append(c *fiber.Ctx) error {
	var req models.AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	msg, err := h.chat.AppendMessage(req.Role, req.Content)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Save failed",
			"details": err.Error(),
		})
	}

	return c.JSON(msg)
}
