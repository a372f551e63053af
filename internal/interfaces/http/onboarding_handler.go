package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/records"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/provisioning"
)

// OnboardingHandler expone el asistente de onboarding por sesión.
type OnboardingHandler struct {
	orch    *onboarding.Orchestrator
	catalog *catalog.Catalog
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(orch *onboarding.Orchestrator, cat *catalog.Catalog) *OnboardingHandler {
	return &OnboardingHandler{orch: orch, catalog: cat}
}

// Create godoc
// @Summary      Abrir sesión de onboarding
// @Tags         onboarding
// @Produce      json
// @Success      201  {object}  dto.SessionStateResponse
// @Router       /api/onboarding/sessions [post]
func (h *OnboardingHandler) Create(c *fiber.Ctx) error {
	s := h.orch.NewSession()
	return c.Status(fiber.StatusCreated).JSON(h.state(c, s))
}

// Resume godoc
// @Summary      Reanudar el onboarding de un tenant
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResumeSessionRequest  true  "tenant_id"
// @Success      201   {object}  dto.SessionStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/onboarding/sessions/resume [post]
func (h *OnboardingHandler) Resume(c *fiber.Ctx) error {
	var in dto.ResumeSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if !records.IsExistingID(in.TenantID) {
		return badRequest(c, "VALIDATION", "tenant_id debe ser un UUID")
	}
	s, err := h.orch.Resume(c.UserContext(), in.TenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.state(c, s))
}

// Get godoc
// @Summary      Estado de la sesión
// @Tags         onboarding
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionStateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/onboarding/sessions/{id} [get]
func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(h.state(c, s))
}

// CompleteStep godoc
// @Summary      Completar el paso actual
// @Description  El cuerpo lleva solo la sección del paso actual (company, api_keys, erp, assistants, advanced).
// @Description  La cabecera X-CSRF-TOKEN se reenvía al servicio de aprovisionamiento.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  onboarding.StepInput    true  "Datos del paso"
// @Success      200   {object}  dto.SessionStateResponse
// @Failure      400   {object}  dto.StepFailureResponse
// @Failure      409   {object}  dto.StepFailureResponse
// @Failure      422   {object}  dto.StepFailureResponse
// @Failure      502   {object}  dto.StepFailureResponse
// @Router       /api/onboarding/sessions/{id}/steps [post]
func (h *OnboardingHandler) CompleteStep(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	var in onboarding.StepInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	ctx := provisioning.WithCSRFToken(c.UserContext(), c.Get(provisioning.HeaderCSRF))
	st, err := h.orch.CompleteStep(ctx, s, in)
	return h.stepResult(c, st, err)
}

// Back godoc
// @Summary      Volver al paso anterior (solo navegación)
// @Tags         onboarding
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionStateResponse
// @Failure      409  {object}  dto.StepFailureResponse
// @Router       /api/onboarding/sessions/{id}/back [post]
func (h *OnboardingHandler) Back(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	err := h.orch.Back(s)
	return h.stepResult(c, h.orch.State(s), err)
}

// DismissError godoc
// @Summary      Descartar el error visible
// @Tags         onboarding
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionStateResponse
// @Router       /api/onboarding/sessions/{id}/dismiss-error [post]
func (h *OnboardingHandler) DismissError(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	h.orch.DismissError(s)
	return c.JSON(h.state(c, s))
}

// Reload godoc
// @Summary      Recargar del store los datos del tenant de la sesión
// @Tags         onboarding
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionStateResponse
// @Failure      409  {object}  dto.StepFailureResponse
// @Router       /api/onboarding/sessions/{id}/reload [post]
func (h *OnboardingHandler) Reload(c *fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return sessionNotFound(c)
	}
	err := h.orch.Reload(c.UserContext(), s)
	return h.stepResult(c, h.orch.State(s), err)
}

// Close godoc
// @Summary      Cerrar la sesión (lo guardado no cambia)
// @Tags         onboarding
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/onboarding/sessions/{id} [delete]
func (h *OnboardingHandler) Close(c *fiber.Ctx) error {
	if !h.orch.CloseSession(c.Params("id")) {
		return sessionNotFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *OnboardingHandler) session(c *fiber.Ctx) (*onboarding.Session, bool) {
	return h.orch.Session(c.Params("id"))
}

func (h *OnboardingHandler) state(c *fiber.Ctx, s *onboarding.Session) dto.SessionStateResponse {
	return toStateResponse(c.UserContext(), h.catalog, h.orch.State(s))
}

// stepResult responde el estado; si err es un fallo de paso, con el código HTTP de su clase.
func (h *OnboardingHandler) stepResult(c *fiber.Ctx, st onboarding.State, err error) error {
	if err == nil {
		return c.JSON(toStateResponse(c.UserContext(), h.catalog, st))
	}
	var serr *onboarding.StepError
	if !errors.As(err, &serr) {
		return writeError(c, err)
	}
	status, code := stepStatus(serr.Kind)
	return c.Status(status).JSON(dto.StepFailureResponse{
		ErrorResponse: dto.ErrorResponse{Code: code, Message: serr.Message},
		State:         toStateResponse(c.UserContext(), h.catalog, st),
	})
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "sesión no encontrada o expirada"})
}
