package handlers

import (
	"bytes"
	"strconv"

	"github.com/NovaGest/crm_service/internal/api/rest/middleware"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/NovaGest/crm_service/internal/helper/utils"
	"github.com/NovaGest/crm_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ClienteHandler struct {
	svc  services.ClienteService
	auth helper.Auth
}

func NewClienteHandler(svc services.ClienteService, auth helper.Auth) *ClienteHandler {
	return &ClienteHandler{svc: svc, auth: auth}
}

func (h *ClienteHandler) SetupRoutes(app *fiber.App) {
	// the middleware stays on these prefixes so the public consent routes
	// under /api are untouched
	cliente := app.Group("/api/cliente", middleware.AuthMiddleware(h.auth))
	cliente.Post("/", h.Create)
	cliente.Get("/", h.List)
	cliente.Get("/export", middleware.TenantOrGestor(h.auth), h.ExportCSV)
	cliente.Get("/:clienteID", h.Get)
	cliente.Put("/:clienteID", middleware.TenantOrGestor(h.auth), h.Update)
	cliente.Patch("/:clienteID/estado", middleware.GestorOnly(h.auth), h.SetEstado)

	app.Get("/api/dashboard/stats", middleware.AuthMiddleware(h.auth), h.Stats)
}

func (h *ClienteHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.ClienteCreateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	cliente, err := h.svc.Create(caller, requestBody)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, cliente)
}

func (h *ClienteHandler) List(ctx *fiber.Ctx) error {
	var query dto.ClienteListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid query")
	}

	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	clientes, err := h.svc.List(caller, query)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, clientes)
}

func (h *ClienteHandler) Get(ctx *fiber.Ctx) error {
	clienteID, err := parseID(ctx, "clienteID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid cliente id")
	}

	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	cliente, err := h.svc.Get(caller, clienteID)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, cliente)
}

func (h *ClienteHandler) Update(ctx *fiber.Ctx) error {
	clienteID, err := parseID(ctx, "clienteID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid cliente id")
	}

	var requestBody dto.ClienteUpdateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	cliente, err := h.svc.Update(caller, clienteID, requestBody)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, cliente)
}

func (h *ClienteHandler) SetEstado(ctx *fiber.Ctx) error {
	clienteID, err := parseID(ctx, "clienteID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid cliente id")
	}

	var requestBody dto.SetEstadoRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Estado == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "estado is required")
	}

	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.svc.SetEstado(caller, clienteID, requestBody.Estado); err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "estado updated")
}

func (h *ClienteHandler) ExportCSV(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var buf bytes.Buffer
	if err := h.svc.ExportCSV(caller, &buf); err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="clientes.csv"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *ClienteHandler) Stats(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.svc.Stats(caller)
	if err != nil {
		status, msg := statusFor(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

func parseID(ctx *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil || n == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(n), nil
}
