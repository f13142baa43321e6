package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/domain"
)

// responderError traduce los errores centinela del dominio a códigos HTTP.
// Cualquier error no reconocido es un 500.
func responderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidacion), errors.Is(err, domain.ErrDatosIncompletos), errors.Is(err, domain.ErrImporteInvalido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("VALIDATION", err.Error()))
	case errors.Is(err, domain.ErrNoAutorizado):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fallo("UNAUTHORIZED", "credenciales inválidas"))
	case errors.Is(err, domain.ErrPermisoDenegado):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fallo("FORBIDDEN", err.Error()))
	case errors.Is(err, domain.ErrNoEncontrado), errors.Is(err, domain.ErrUsuarioNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fallo("NOT_FOUND", err.Error()))
	case errors.Is(err, domain.ErrEstadoTerminal):
		return c.Status(fiber.StatusConflict).JSON(dto.Fallo("TERMINAL_STATE", err.Error()))
	case errors.Is(err, domain.ErrConflicto):
		return c.Status(fiber.StatusConflict).JSON(dto.Fallo("CONFLICT", err.Error()))
	case errors.Is(err, domain.ErrDuplicado):
		return c.Status(fiber.StatusConflict).JSON(dto.Fallo("DUPLICATE", err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fallo("INTERNAL", err.Error()))
	}
}
