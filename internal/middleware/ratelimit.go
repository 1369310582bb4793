package middleware

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP) across all API endpoints
	GlobalAPIMax        int
	GlobalAPIExpiration time.Duration

	// Analyze endpoint limits (per IP) - each call may cost two oracle calls
	AnalyzeMax        int
	AnalyzeExpiration time.Duration

	// Redis-backed per-client limit (requests per minute)
	PerClientMax int64
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min - generous for normal delivery-layer traffic
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Analyze: 60/min - oracle calls are the expensive path
		AnalyzeMax:        60,
		AnalyzeExpiration: 1 * time.Minute,

		PerClientMax: 120,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL_API"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalAPIMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_ANALYZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.AnalyzeMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_PER_CLIENT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			config.PerClientMax = n
		}
	}

	// Development mode: more lenient limits
	if os.Getenv("ENVIRONMENT") == "development" {
		config.GlobalAPIMax = 1000
		config.AnalyzeMax = 500
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return config
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
// This is the first line of defense against floods from scam infrastructure
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalAPIMax,
		Expiration: config.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests. Please slow down.",
				"retry_after": int(config.GlobalAPIExpiration.Seconds()),
			})
		},
	})
}

// AnalyzeRateLimiter guards the analyze endpoint, whose turns fan out to
// the oracle.
func AnalyzeRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.AnalyzeMax,
		Expiration: config.AnalyzeExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "analyze:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Analyze limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many analysis requests. Please wait.",
				"retry_after": int(config.AnalyzeExpiration.Seconds()),
			})
		},
	})
}
