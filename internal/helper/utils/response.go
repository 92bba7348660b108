package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// ResponseSuccess wraps payloads for the authenticated CRM surface.
func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseJSON writes the payload as-is. The public consent endpoints and the
// sweep trigger have fixed top-level shapes consumed by external parties.
func ResponseJSON(ctx *fiber.Ctx, status int, payload interface{}) error {
	return ctx.Status(status).JSON(payload)
}
