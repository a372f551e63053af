package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain"
)

// stepStatus código HTTP y código de error según la clase de fallo del paso.
func stepStatus(kind onboarding.Kind) (int, string) {
	switch kind {
	case onboarding.KindValidation:
		return fiber.StatusBadRequest, "VALIDATION"
	case onboarding.KindPrecondition:
		return fiber.StatusConflict, "PRECONDITION"
	case onboarding.KindBusy:
		return fiber.StatusConflict, "BUSY"
	case onboarding.KindConstraint:
		return fiber.StatusUnprocessableEntity, "CONSTRAINT"
	case onboarding.KindExternal:
		return fiber.StatusBadGateway, "PROVISIONING_FAILED"
	default:
		return fiber.StatusInternalServerError, "PERSISTENCE"
	}
}

// writeError traduce errores de dominio y de paso a dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var serr *onboarding.StepError
	if errors.As(err, &serr) {
		status, code := stepStatus(serr.Kind)
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: serr.Message})
	}
	if _, ok := domain.AsConstraintError(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IN_USE", Message: "el registro está referenciado por otros datos"})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// page lee limit/offset con los topes del panel.
func page(c *fiber.Ctx) (limit, offset int) {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	p.Normalize()
	return p.Limit, p.Offset
}
