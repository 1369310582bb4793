package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"honeynet/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store *services.SessionStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *services.SessionStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "honeypot-api",
		"sessions":  h.store.Count(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
