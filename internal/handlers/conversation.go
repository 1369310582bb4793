package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"honeynet/internal/models"
	"honeynet/internal/services"
)

// ConversationHandler serves conversation history and aggregated intelligence
type ConversationHandler struct {
	store *services.SessionStore
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(store *services.SessionStore) *ConversationHandler {
	return &ConversationHandler{store: store}
}

// Get handles GET /api/conversation/:id.
// Unknown conversation IDs are a 404, never an empty history.
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	conversationID := c.Params("id")

	session, err := h.store.History(conversationID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No conversation found with ID: " + conversationID,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation",
		})
	}

	return c.JSON(models.ConversationResponse{
		ConversationID:         session.ID,
		TotalTurns:             len(session.Turns),
		History:                session.Turns,
		AggregatedIntelligence: session.Aggregate,
	})
}
