package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// ── Plantillas (repository.TemplateAdminRepository) ──────────────────────────

var _ repository.TemplateAdminRepository = (*DB)(nil)

// ListERPTemplates devuelve el catálogo ERP.
func (db *DB) ListERPTemplates(_ context.Context) ([]entity.ERPTemplate, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]entity.ERPTemplate(nil), db.erpTemplates...), nil
}

// ListPromptTemplates devuelve el catálogo de prompts.
func (db *DB) ListPromptTemplates(_ context.Context) ([]entity.PromptTemplate, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]entity.PromptTemplate(nil), db.promptTemplates...), nil
}

// CreateERPTemplate agrega una plantilla ERP; domain.ErrDuplicate si el id ya existe.
func (db *DB) CreateERPTemplate(_ context.Context, tpl *entity.ERPTemplate) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.erpTemplateIndex(tpl.ID) >= 0 {
		return fmt.Errorf("plantilla ERP %s: %w", tpl.ID, domain.ErrDuplicate)
	}
	db.erpTemplates = append(db.erpTemplates, *tpl)
	return nil
}

// UpdateERPTemplate reemplaza la plantilla con el mismo id.
func (db *DB) UpdateERPTemplate(_ context.Context, tpl *entity.ERPTemplate) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.erpTemplateIndex(tpl.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	db.erpTemplates[i] = *tpl
	return nil
}

// DeleteERPTemplate elimina la plantilla si ninguna configuración ERP la usa.
func (db *DB) DeleteERPTemplate(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.erpTemplateIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	for _, c := range db.erpConfigs {
		if c.TemplateID == id {
			return &domain.ConstraintError{Constraint: "erp_configurations_erp_template_id_fkey", Field: domain.FieldERPTemplateID}
		}
	}
	db.erpTemplates = append(db.erpTemplates[:i:i], db.erpTemplates[i+1:]...)
	return nil
}

// CreatePromptTemplate agrega una plantilla de prompt; domain.ErrDuplicate si el id ya existe.
func (db *DB) CreatePromptTemplate(_ context.Context, tpl *entity.PromptTemplate) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.promptTemplateIndex(tpl.ID) >= 0 {
		return fmt.Errorf("plantilla de prompt %s: %w", tpl.ID, domain.ErrDuplicate)
	}
	db.promptTemplates = append(db.promptTemplates, *tpl)
	return nil
}

// UpdatePromptTemplate reemplaza la plantilla con el mismo id.
func (db *DB) UpdatePromptTemplate(_ context.Context, tpl *entity.PromptTemplate) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.promptTemplateIndex(tpl.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	db.promptTemplates[i] = *tpl
	return nil
}

// DeletePromptTemplate elimina la plantilla si ningún asistente la referencia.
func (db *DB) DeletePromptTemplate(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.promptTemplateIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	for _, a := range db.assistants {
		if a.PromptTemplateID != nil && *a.PromptTemplateID == id {
			return &domain.ConstraintError{Constraint: "assistants_prompt_template_id_fkey", Field: domain.FieldPromptTemplateID}
		}
	}
	db.promptTemplates = append(db.promptTemplates[:i:i], db.promptTemplates[i+1:]...)
	return nil
}

// Llamar con db.mu tomado.
func (db *DB) erpTemplateIndex(id string) int {
	for i, t := range db.erpTemplates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (db *DB) promptTemplateIndex(id string) int {
	for i, t := range db.promptTemplates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (db *DB) hasERPTemplate(id string) bool { return db.erpTemplateIndex(id) >= 0 }

func (db *DB) hasPromptTemplate(id string) bool { return db.promptTemplateIndex(id) >= 0 }
