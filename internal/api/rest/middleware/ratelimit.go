package middleware

import (
	"fmt"
	"log"

	"github.com/NovaGest/crm_service/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// RateLimit bounds request rate per client IP for a named route. A limiter
// backend error fails open: throttling is protective, not load-bearing.
func RateLimit(limiter ratelimit.Limiter, route string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := fmt.Sprintf("rl:%s:%s", route, ctx.IP())

		allowed, err := limiter.Allow(ctx.Context(), key)
		if err != nil {
			log.Printf("rate limiter error on %s: %v", route, err)
			return ctx.Next()
		}
		if !allowed {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		return ctx.Next()
	}
}
