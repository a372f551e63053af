package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/usecase"
)

// TemplateHandler catálogo de plantillas ERP y de prompt. La lectura es pública; la
// escritura requiere el rol del panel.
type TemplateHandler struct {
	uc *usecase.TemplateUseCase
}

// NewTemplateHandler construye el handler.
func NewTemplateHandler(uc *usecase.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

// ListERP godoc
// @Summary      Plantillas de integración ERP
// @Tags         templates
// @Produce      json
// @Success      200  {object}  dto.ERPTemplateListResponse
// @Router       /api/templates/erp [get]
func (h *TemplateHandler) ListERP(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListERP(c.UserContext()))
}

// ListPrompts godoc
// @Summary      Plantillas de prompt
// @Tags         templates
// @Produce      json
// @Success      200  {object}  dto.PromptTemplateListResponse
// @Router       /api/templates/prompts [get]
func (h *TemplateHandler) ListPrompts(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListPrompts(c.UserContext()))
}

// CreateERP godoc
// @Summary      Crear plantilla ERP
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ERPTemplateRequest  true  "Plantilla"
// @Success      201   {object}  entity.ERPTemplate
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/templates/erp [post]
func (h *TemplateHandler) CreateERP(c *fiber.Ctx) error {
	var in dto.ERPTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateERP(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateERP godoc
// @Summary      Editar plantilla ERP
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID de la plantilla"
// @Param        body  body  dto.ERPTemplateRequest  true  "Plantilla"
// @Success      200   {object}  entity.ERPTemplate
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/templates/erp/{id} [put]
func (h *TemplateHandler) UpdateERP(c *fiber.Ctx) error {
	var in dto.ERPTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateERP(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteERP godoc
// @Summary      Eliminar plantilla ERP
// @Description  409 IN_USE si algún tenant tiene la integración configurada.
// @Tags         templates
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/templates/erp/{id} [delete]
func (h *TemplateHandler) DeleteERP(c *fiber.Ctx) error {
	if err := h.uc.DeleteERP(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreatePrompt godoc
// @Summary      Crear plantilla de prompt
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PromptTemplateRequest  true  "Plantilla"
// @Success      201   {object}  dto.PromptTemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/templates/prompts [post]
func (h *TemplateHandler) CreatePrompt(c *fiber.Ctx) error {
	var in dto.PromptTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreatePrompt(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePrompt godoc
// @Summary      Editar plantilla de prompt
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "ID de la plantilla"
// @Param        body  body  dto.PromptTemplateRequest  true  "Plantilla"
// @Success      200   {object}  dto.PromptTemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/templates/prompts/{id} [put]
func (h *TemplateHandler) UpdatePrompt(c *fiber.Ctx) error {
	var in dto.PromptTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdatePrompt(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePrompt godoc
// @Summary      Eliminar plantilla de prompt
// @Description  409 IN_USE si algún asistente la referencia.
// @Tags         templates
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/templates/prompts/{id} [delete]
func (h *TemplateHandler) DeletePrompt(c *fiber.Ctx) error {
	if err := h.uc.DeletePrompt(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
