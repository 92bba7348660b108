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

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App, limiter ratelimit.Limiter) {
	user := app.Group("/api/user")

	user.Post("/register", h.Register)
	user.Post("/login", middleware.RateLimit(limiter, "login"), h.Login)
	user.Get("/me", middleware.AuthMiddleware(h.auth), h.Me)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if requestBody.Email == "" || requestBody.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.Register(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "User registered successfully")
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	token, err := h.svc.Login(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.LoginResponse{Token: token})
}

func (h *UserHandler) Me(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetProfile(caller.UserID)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}
