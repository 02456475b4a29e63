package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rterbush/nautilus-trader/internal/rate"
)

// RateLimit returns a middleware that throttles requests per remote address.
func RateLimit(mgr *rate.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !mgr.Allow(c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
