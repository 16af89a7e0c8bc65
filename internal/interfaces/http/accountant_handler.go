package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/application/usecase"
)

// AccountantHandler maneja contables y la relación con su super contable.
type AccountantHandler struct {
	uc *usecase.AccountantUseCase
}

// NewAccountantHandler construye el handler.
func NewAccountantHandler(uc *usecase.AccountantUseCase) *AccountantHandler {
	return &AccountantHandler{uc: uc}
}

// List godoc
// @Summary      Listar contables visibles para el usuario
// @Tags         accountants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.AccountantResponse
// @Router       /accountants/ [get]
func (h *AccountantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener contable
// @Tags         accountants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Accountant ID"
// @Success      200  {object}  dto.AccountantResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /accountants/{id} [get]
func (h *AccountantHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignSuper godoc
// @Summary      Asignar super contable
// @Tags         accountants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "Accountant ID"
// @Param        body  body  dto.AssignSuperRequest  true  "super_accountant_id"
// @Success      200   {object}  dto.AccountantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /accountants/{id}/assign-super [post]
func (h *AccountantHandler) AssignSuper(c *fiber.Ctx) error {
	var in dto.AssignSuperRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.SuperAccountantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "super_accountant_id is required"})
	}
	out, err := h.uc.AssignSuper(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveSuper godoc
// @Summary      Quitar super contable
// @Tags         accountants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Accountant ID"
// @Success      200  {object}  dto.AccountantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /accountants/{id}/remove-super [post]
func (h *AccountantHandler) RemoveSuper(c *fiber.Ctx) error {
	out, err := h.uc.RemoveSuper(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
