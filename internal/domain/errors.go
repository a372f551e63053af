package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrTenantRequired     = errors.New("tenant no creado: complete el paso 1 primero")
)

// Campos con llave foránea que el store reporta en ConstraintError.
const (
	FieldPromptTemplateID = "prompt_template_id"
	FieldERPTemplateID    = "erp_template_id"
	FieldTenantID         = "tenant_id"
	FieldAddressID        = "address_id"
)

// ConstraintError violación de integridad referencial reportada por el store.
// Field es la columna afectada; el orquestador decide el mensaje a partir de ella.
type ConstraintError struct {
	Constraint string
	Field      string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("violación de llave foránea %s (%s)", e.Constraint, e.Field)
	}
	return fmt.Sprintf("violación de llave foránea en %s", e.Field)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// AsConstraintError extrae un *ConstraintError de la cadena de errores.
func AsConstraintError(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
