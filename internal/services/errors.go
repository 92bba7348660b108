package services

import "errors"

// Service-level error taxonomy. Handlers translate these to HTTP statuses;
// anything else surfaces as a generic 500.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already processed")
	ErrExpired      = errors.New("expired")
	ErrInvalid      = errors.New("invalid input")
)
