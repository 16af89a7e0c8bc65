package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apex-am/internal/application/auth"
	"github.com/jhoicas/apex-am/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	AccountantUC *usecase.AccountantUseCase
	BusinessUC   *usecase.BusinessUseCase
	ReportUC     *usecase.ReportUseCase
	ServiceName  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", Info(deps.ServiceName))
	app.Get("/health", Health(deps.ServiceName))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/auth/login-json", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y rol reconocido)
	authMW := AuthMiddleware(deps.AuthUC)
	known := RequireCapability("access the dashboard", isRecognized)

	// Users
	userHandler := NewUserHandler(deps.UserUC, deps.BusinessUC)
	users := app.Group("/users", authMW)
	users.Get("/me", userHandler.Me)
	users.Get("/", RequireCapability("list users", canListUsers), userHandler.List)
	users.Get("/:id/businesses", known, userHandler.Businesses)
	users.Get("/:id", RequireCapability("view users", canListUsers), userHandler.GetByID)
	users.Post("/:id/assign-role", RequireCapability("change roles", canPromote), userHandler.AssignRole)

	// Accountants
	accountantHandler := NewAccountantHandler(deps.AccountantUC)
	accountants := app.Group("/accountants", authMW, known)
	accountants.Get("/", accountantHandler.List)
	accountants.Get("/:id", accountantHandler.GetByID)
	manageAcc := RequireCapability("manage super accountants", canManageAssignments)
	accountants.Post("/:id/assign-super", manageAcc, accountantHandler.AssignSuper)
	accountants.Post("/:id/remove-super", manageAcc, accountantHandler.RemoveSuper)

	// Businesses (report.pdf antes de /:id)
	businessHandler := NewBusinessHandler(deps.BusinessUC, deps.ReportUC)
	businesses := app.Group("/businesses", authMW, known)
	businesses.Get("/", businessHandler.List)
	businesses.Get("/report.pdf", businessHandler.PortfolioPDF)
	businesses.Get("/:id", businessHandler.GetByID)
	manageBiz := RequireCapability("manage accountant assignments", canManageAssignments)
	businesses.Post("/:id/assign-accountant", manageBiz, businessHandler.AssignAccountant)
	businesses.Post("/:id/remove-accountant", manageBiz, businessHandler.RemoveAccountant)
}
