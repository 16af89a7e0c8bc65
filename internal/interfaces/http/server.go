package http

import (
	"errors"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/apex-am/internal/application/dto"
)

// ServerConfig parámetros transversales de la app HTTP.
type ServerConfig struct {
	AppName            string
	CORSOrigins        string
	RateLimitPerMinute int
	RateLimitBurst     int
	SwaggerFile        string // ./docs/swagger.json; vacío o inexistente = sin /docs
	Logger             zerolog.Logger
}

// NewServer construye la app Fiber con middlewares globales y rutas.
// Rate limit desactivado si RateLimitPerMinute <= 0.
func NewServer(cfg ServerConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(cfg.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	if cfg.RateLimitPerMinute > 0 {
		app.Use(NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst).Middleware())
	}
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			// Swagger UI en http://localhost:<port>/docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Apex AM API",
			}))
		} else {
			cfg.Logger.Warn().Str("file", cfg.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}
	if deps.ServiceName == "" {
		deps.ServiceName = cfg.AppName
	}
	Router(app, deps)
	return app
}

// errorHandler da forma ErrorResponse a los errores que escapan de los handlers (404 de ruta, panics).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
