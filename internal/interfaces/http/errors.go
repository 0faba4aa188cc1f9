package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/infrastructure/postgrest"
)

// writeError maps ledger errors to HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var apiErr *postgrest.APIError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Message})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrAuthNotReady):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "AUTH_NOT_READY", Message: "Please sign in first"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "not found or not owned"})
	case errors.Is(err, domain.ErrBusinessUnresolved):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "BUSINESS_UNRESOLVED", Message: err.Error()})
	case errors.As(err, &apiErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKEND", Message: apiErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
}
