package handlers

import (
	"github.com/NovaGest/crm_service/internal/api/rest/middleware"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/NovaGest/crm_service/internal/helper/utils"
	"github.com/NovaGest/crm_service/internal/services"
	"github.com/NovaGest/crm_service/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
)

type ConsentHandler struct {
	svc  services.ConsentService
	auth helper.Auth
}

func NewConsentHandler(svc services.ConsentService, auth helper.Auth) *ConsentHandler {
	return &ConsentHandler{svc: svc, auth: auth}
}

func (h *ConsentHandler) SetupRoutes(app *fiber.App, limiter ratelimit.Limiter, adminSecret string) {
	api := app.Group("/api")
	consent := api.Group("/consent")

	consent.Post("/generate",
		middleware.AuthMiddleware(h.auth),
		middleware.TenantOrGestor(h.auth),
		h.Generate,
	)

	// public routes carry the rate limiter; the token itself is the credential
	consent.Get("/verify", middleware.RateLimit(limiter, "consent-verify"), h.Verify)
	consent.Post("/accept", middleware.RateLimit(limiter, "consent-accept"), h.Accept)

	consent.Get("/sweep-expired", middleware.SweepAuth(adminSecret), h.SweepExpired)
}

func (h *ConsentHandler) Generate(ctx *fiber.Ctx) error {
	var requestBody dto.GenerateConsentRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.ClienteID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "cliente_id is required")
	}

	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	out, err := h.svc.Generate(caller, requestBody.ClienteID)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseJSON(ctx, fiber.StatusOK, out)
}

func (h *ConsentHandler) Verify(ctx *fiber.Ctx) error {
	out, err := h.svc.Verify(ctx.Query("token"))
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseJSON(ctx, fiber.StatusOK, out)
}

func (h *ConsentHandler) Accept(ctx *fiber.Ctx) error {
	var requestBody dto.AcceptConsentRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Token == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "token is required")
	}

	if err := h.svc.Accept(requestBody.Token, ctx.IP(), ctx.Get("User-Agent")); err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseJSON(ctx, fiber.StatusOK, fiber.Map{"success": true})
}

func (h *ConsentHandler) SweepExpired(ctx *fiber.Ctx) error {
	count, err := h.svc.SweepExpired()
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseJSON(ctx, fiber.StatusOK, dto.SweepResponse{Actualizados: count})
}
