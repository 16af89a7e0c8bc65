package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apex-am/internal/application/dto"
)

// Version versión expuesta en GET /.
const Version = "1.0.0"

// Health godoc
// @Summary      Estado del servicio
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "healthy", Service: service})
	}
}

// Info godoc
// @Summary      Información de la API
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.InfoResponse
// @Router       / [get]
func Info(service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.InfoResponse{Message: service, Version: Version, Docs: "/docs"})
	}
}
