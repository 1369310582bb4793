package middleware

import (
	"crypto/subtle"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"honeynet/internal/services"
)

// APIKeyMiddleware validates the shared X-API-Key header on protected routes.
func APIKeyMiddleware(expectedKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key. Include X-API-Key header.",
			})
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
			log.Printf("❌ [APIKEY-AUTH] Invalid key attempt from %s", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		c.Locals("auth_type", "api_key")
		return c.Next()
	}
}

// RateLimitByClient applies Redis-backed rate limiting per client IP.
// Allows requests through on Redis errors or when Redis is not configured;
// the in-memory global limiter still applies.
func RateLimitByClient(redisService *services.RedisService, perMinute int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisService == nil {
			return c.Next()
		}

		ctx := c.Context()
		minuteKey := "ratelimit:minute:" + c.IP()

		count, err := redisService.Incr(ctx, minuteKey)
		if err != nil {
			log.Printf("⚠️ [RATE-LIMIT] Redis error: %v", err)
			return c.Next() // Allow on error
		}

		if count == 1 {
			// First request, set expiry
			redisService.Expire(ctx, minuteKey, 60*time.Second)
		}

		if count > perMinute {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Rate limit exceeded (per minute)",
				"retry_after": "60 seconds",
			})
		}

		remaining := perMinute - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit-Minute", strconv.FormatInt(perMinute, 10))
		c.Set("X-RateLimit-Remaining-Minute", strconv.FormatInt(remaining, 10))

		return c.Next()
	}
}
