package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

// RequireCapability devuelve un middleware Fiber que consulta la tabla de
// capacidades del rol autenticado. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → no hay rol en el contexto.
//   - 403 ROLE_NOT_RECOGNIZED → el rol no está en la tabla.
//   - 403 FORBIDDEN → el rol existe pero no tiene la capacidad.
func RequireCapability(name string, has func(policy.Capabilities) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "User role not found"})
		}
		caps := policy.Lookup(role)
		if !caps.Recognized {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ROLE_NOT_RECOGNIZED", Message: "Role not recognized"})
		}
		if !has(caps) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Not enough permissions to " + name})
		}
		return c.Next()
	}
}

// Capacidades usadas por el router.
var (
	canManageAssignments = func(c policy.Capabilities) bool { return c.ManageAssignments }
	canPromote           = func(c policy.Capabilities) bool { return c.Promote }
	canListUsers         = func(c policy.Capabilities) bool { return c.ListUsers }
	isRecognized         = func(c policy.Capabilities) bool { return c.Recognized }
)
