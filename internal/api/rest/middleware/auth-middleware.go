package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", user.UserID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// RoleRequired gates a route on the role claim. Runs after AuthMiddleware.
func RoleRequired(auth helper.Auth, codes ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := auth.GetCurrentUser(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		for _, code := range codes {
			if user.Role == code {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}

func TenantOrGestor(auth helper.Auth) fiber.Handler {
	return RoleRequired(auth, domain.RoleTenant, domain.RoleGestor)
}

func GestorOnly(auth helper.Auth) fiber.Handler {
	return RoleRequired(auth, domain.RoleGestor)
}

// SweepAuth guards the batch trigger with a static shared secret. System to
// system only, so coarser than the per-user session check.
func SweepAuth(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := strings.TrimSpace(ctx.Get("Authorization"))
		header = strings.TrimPrefix(header, "Bearer ")
		header = strings.TrimSpace(header)

		if secret == "" || subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return ctx.Next()
	}
}
