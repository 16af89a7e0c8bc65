package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// errorTable traduce errores de dominio a respuestas HTTP. El primer match gana.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "Invalid request"},
	{domain.ErrInvalidRole, fiber.StatusBadRequest, "INVALID_ROLE", "Invalid role"},
	{domain.ErrNotSuperAccountant, fiber.StatusBadRequest, "NOT_SUPER_ACCOUNTANT", "Referenced accountant is not a super accountant"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials"},
	{domain.ErrInactiveUser, fiber.StatusForbidden, "INACTIVE_USER", "Inactive user"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "Access denied"},
	{policy.ErrRoleNotRecognized, fiber.StatusForbidden, "ROLE_NOT_RECOGNIZED", "Role not recognized"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", "User not found"},
	{domain.ErrAccountantNotFound, fiber.StatusNotFound, "ACCOUNTANT_NOT_FOUND", "Accountant not found"},
	{domain.ErrBusinessNotFound, fiber.StatusNotFound, "BUSINESS_NOT_FOUND", "Business not found"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Resource not found"},
	{domain.ErrImmutableRole, fiber.StatusConflict, "IMMUTABLE_ROLE", "Root admin role cannot be changed"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "Email already registered"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "Conflict with current state"},
}

// writeError responde con el status y código correspondientes al error.
// Errores no mapeados responden 500 INTERNAL y se registran.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Internal server error"})
}

// badBody respuesta para cuerpos JSON que no se pueden parsear.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "Invalid JSON body"})
}
