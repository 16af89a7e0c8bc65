package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/application/usecase"
)

// BusinessHandler maneja negocios, asignación de contables y el reporte de cartera.
type BusinessHandler struct {
	uc     *usecase.BusinessUseCase
	report *usecase.ReportUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase, report *usecase.ReportUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc, report: report}
}

// List godoc
// @Summary      Listar negocios visibles para el usuario
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.BusinessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /businesses/ [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener negocio
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Business ID"
// @Success      200  {object}  dto.BusinessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /businesses/{id} [get]
func (h *BusinessHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignAccountant godoc
// @Summary      Asignar contable al negocio
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "Business ID"
// @Param        body  body  dto.AssignAccountantRequest  true  "accountant_id"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /businesses/{id}/assign-accountant [post]
func (h *BusinessHandler) AssignAccountant(c *fiber.Ctx) error {
	var in dto.AssignAccountantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AssignAccountant(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveAccountant godoc
// @Summary      Quitar contable del negocio
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "Business ID"
// @Param        body  body  dto.AssignAccountantRequest  true  "accountant_id"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /businesses/{id}/remove-accountant [post]
func (h *BusinessHandler) RemoveAccountant(c *fiber.Ctx) error {
	var in dto.AssignAccountantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RemoveAccountant(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PortfolioPDF godoc
// @Summary      Reporte PDF de la cartera visible
// @Tags         businesses
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /businesses/report.pdf [get]
func (h *BusinessHandler) PortfolioPDF(c *fiber.Ctx) error {
	pdf, err := h.report.GeneratePortfolioPDF(c.UserContext(), GetCurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="portfolio-%s.pdf"`, GetUserID(c)))
	return c.Send(pdf)
}
