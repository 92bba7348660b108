package handlers

import (
	"errors"

	"github.com/NovaGest/crm_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP statuses with caller-safe messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalid):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrExpired):
		return fiber.StatusGone, err.Error()
	}
	return fiber.StatusInternalServerError, "internal error"
}
