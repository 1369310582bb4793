package handlers

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"honeynet/internal/models"
	"honeynet/internal/services"
)

// AnalyzeHandler handles scam analysis requests
type AnalyzeHandler struct {
	engagement *services.EngagementService
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(engagement *services.EngagementService) *AnalyzeHandler {
	return &AnalyzeHandler{engagement: engagement}
}

// Handle processes POST /api/honeypot/analyze.
// Analyzes the incoming message, optionally generates a believable decoy
// response, and returns the turn result with the session's running aggregate.
func (h *AnalyzeHandler) Handle(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// An omitted conversation ID still gets a session; each such request
	// becomes its own single-turn conversation.
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	result, err := h.engagement.AnalyzeMessage(c.Context(), req.Message, conversationID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message cannot be empty",
			})
		}
		log.Printf("❌ [ANALYZE] Analysis failed for %s: %v", conversationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Analysis failed",
		})
	}

	return c.JSON(models.AnalyzeResponse{
		Status:                     "success",
		Timestamp:                  time.Now().UTC().Format(time.RFC3339),
		IsScam:                     result.Verdict.IsScam,
		Confidence:                 math.Round(result.Verdict.Confidence*100) / 100,
		ScamType:                   result.Verdict.ScamType,
		AIResponse:                 result.Response,
		PersonaUsed:                result.PersonaUsed,
		ExtractedIntelligence:      result.Extracted,
		Reasoning:                  result.Verdict.Reasoning,
		ConversationTurn:           result.ConversationTurn,
		TotalIntelligenceCollected: result.Aggregate,
	})
}
