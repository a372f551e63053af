package onboarding

import (
	"errors"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain"
)

// Kind clasifica los errores de un paso.
type Kind string

const (
	KindPrecondition Kind = "precondition" // falta el tenant u otro dato previo
	KindValidation   Kind = "validation"   // payload incompleto
	KindExternal     Kind = "external"     // servicio de aprovisionamiento
	KindPersistence  Kind = "persistence"  // store
	KindConstraint   Kind = "constraint"   // llave foránea violada
	KindBusy         Kind = "busy"         // ya hay un paso en curso en la sesión
)

// StepError error de un paso del asistente. Message es el texto para el usuario.
type StepError struct {
	Step    int
	Kind    Kind
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("paso %d (%s): %s: %v", e.Step, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("paso %d (%s): %s", e.Step, e.Kind, e.Message)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step int, kind Kind, msg string, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Message: msg, Err: err}
}

// persistenceErr clasifica un error del store: las violaciones de llave foránea se reportan por
// columna; el resto como error de persistencia. subject antecede el mensaje (p. ej. el asistente).
func persistenceErr(step int, subject string, err error) *StepError {
	if ce, ok := domain.AsConstraintError(err); ok {
		return stepErr(step, KindConstraint, prefix(subject, constraintMessage(ce.Field)), err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return stepErr(step, KindValidation, prefix(subject, "el registro indicado no pertenece a este tenant"), err)
	}
	return stepErr(step, KindPersistence, prefix(subject, "no se pudo guardar: "+err.Error()), err)
}

func constraintMessage(field string) string {
	switch field {
	case domain.FieldPromptTemplateID:
		return "la plantilla de prompt seleccionada no existe"
	case domain.FieldERPTemplateID:
		return "la plantilla ERP seleccionada no existe"
	case domain.FieldTenantID:
		return "el tenant ya no existe; reinicie el onboarding"
	case domain.FieldAddressID:
		return "la dirección del tenant no existe"
	default:
		return "referencia inválida en " + field
	}
}

func prefix(subject, msg string) string {
	if subject == "" {
		return msg
	}
	return subject + ": " + msg
}
