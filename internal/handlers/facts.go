package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"mira/internal/models"
	"mira/internal/services"
)

// FactHandler handles long-term memory API requests
type FactHandler struct {
	facts *services.FactService
}

// NewFactHandler creates a new fact handler
func NewFactHandler(facts *services.FactService) *FactHandler {
	return &FactHandler{facts: facts}
}

// List returns the most recent facts, newest first
func (h *FactHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	facts, err := h.facts.ListFacts(limit)
	if err != nil {
		log.Printf("❌ [FACTS-API] Failed to list facts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load facts",
		})
	}
	if facts == nil {
		facts = []models.Fact{}
	}

	return c.JSON(facts)
}

// Create stores a new fact. Reminders with a past trigger time are rejected.
func (h *FactHandler) Create(c *fiber.Ctx) error {
	var req models.CreateFactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Save failed",
			"details": "invalid request body",
		})
	}

	fact, err := h.facts.CreateFact(&req, time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Save failed",
			"details": err.Error(),
		})
	}

	return c.JSON(fact)
}

// Update applies a partial update to a fact
func (h *FactHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Update failed",
			"details": "invalid fact id",
		})
	}

	var patch models.FactPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Update failed",
			"details": "invalid request body",
		})
	}

	fact, err := h.facts.UpdateFact(id, &patch)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Update failed",
			"details": err.Error(),
		})
	}

	return c.JSON(fact)
}

// ListDue returns reminders whose time has arrived and that have not been
// announced, earliest first
func (h *FactHandler) ListDue(c *fiber.Ctx) error {
	due, err := h.facts.ListDueReminders(time.Now())
	if err != nil {
		log.Printf("❌ [FACTS-API] Failed to list due reminders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load reminders",
		})
	}
	if due == nil {
		due = []models.Fact{}
	}

	return c.JSON(due)
}
