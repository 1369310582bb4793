package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RootHandler serves API status/discovery endpoints
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// Handle responds with service information and available endpoints
func (h *RootHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Agentic Honeypot API",
		"status":  "operational",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"health":       "/health",
			"test":         "/test",
			"analyze":      "/api/honeypot/analyze",
			"conversation": "/api/conversation/:id",
			"metrics":      "/metrics",
		},
	})
}

// HandleTest is the authenticated reachability probe, reachable via GET and
// POST so delivery-layer validators can use either.
func (h *RootHandler) HandleTest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "success",
		"message":       "Honeypot endpoint is reachable and authenticated",
		"authenticated": true,
		"method":        c.Method(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
