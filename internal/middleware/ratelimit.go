package middleware

import (
	"strconv"

	"refnet/internal/logger"
	"refnet/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RateLimit throttles requests per client IP. A failing counter store lets the
// request through.
func RateLimit(limiter *ratelimit.Limiter, log *zap.Logger) fiber.Handler {
	log = logger.OrNop(log).Named("ratelimit")

	return func(c *fiber.Ctx) error {
		d, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.Warn("counter store unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(d.RetryAfter.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		}
		return c.Next()
	}
}
