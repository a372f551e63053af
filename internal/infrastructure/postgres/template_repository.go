package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.TemplateAdminRepository = (*TemplateRepo)(nil)

// TemplateRepo catálogo de plantillas (tablas de referencia). El asistente solo lee; el panel
// las administra.
type TemplateRepo struct {
	q Querier
}

// NewTemplateRepository construye el adaptador.
func NewTemplateRepository(q Querier) *TemplateRepo {
	return &TemplateRepo{q: q}
}

// ListERPTemplates lista las plantillas ERP. fields y commands son jsonb.
func (r *TemplateRepo) ListERPTemplates(ctx context.Context) ([]entity.ERPTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, fields, commands FROM erp_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list erp templates: %w", err)
	}
	defer rows.Close()
	var list []entity.ERPTemplate
	for rows.Next() {
		var t entity.ERPTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Fields, &t.Commands); err != nil {
			return nil, fmt.Errorf("scan erp template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ListPromptTemplates lista las plantillas de prompt.
func (r *TemplateRepo) ListPromptTemplates(ctx context.Context) ([]entity.PromptTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, body FROM prompt_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list prompt templates: %w", err)
	}
	defer rows.Close()
	var list []entity.PromptTemplate
	for rows.Next() {
		var t entity.PromptTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Body); err != nil {
			return nil, fmt.Errorf("scan prompt template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ── Escritura (panel) ────────────────────────────────────────────────────────

// CreateERPTemplate inserta una plantilla ERP.
func (r *TemplateRepo) CreateERPTemplate(ctx context.Context, t *entity.ERPTemplate) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO erp_templates (id, name, description, fields, commands) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.Description, nonNil(t.Fields), nonNil(t.Commands))
	if err != nil {
		return mapWriteError("create erp template", err)
	}
	return nil
}

// UpdateERPTemplate reemplaza nombre, descripción, campos y comandos.
func (r *TemplateRepo) UpdateERPTemplate(ctx context.Context, t *entity.ERPTemplate) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE erp_templates SET name = $2, description = $3, fields = $4, commands = $5 WHERE id = $1`,
		t.ID, t.Name, t.Description, nonNil(t.Fields), nonNil(t.Commands))
	if err != nil {
		return mapWriteError("update erp template", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteERPTemplate elimina la plantilla; la FK de erp_configurations la protege si está en uso.
func (r *TemplateRepo) DeleteERPTemplate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM erp_templates WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete erp template", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePromptTemplate inserta una plantilla de prompt.
func (r *TemplateRepo) CreatePromptTemplate(ctx context.Context, t *entity.PromptTemplate) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO prompt_templates (id, name, description, body) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Description, t.Body)
	if err != nil {
		return mapWriteError("create prompt template", err)
	}
	return nil
}

// UpdatePromptTemplate reemplaza la plantilla de prompt.
func (r *TemplateRepo) UpdatePromptTemplate(ctx context.Context, t *entity.PromptTemplate) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE prompt_templates SET name = $2, description = $3, body = $4 WHERE id = $1`,
		t.ID, t.Name, t.Description, t.Body)
	if err != nil {
		return mapWriteError("update prompt template", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeletePromptTemplate elimina la plantilla; la FK de assistants la protege si está en uso.
func (r *TemplateRepo) DeletePromptTemplate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM prompt_templates WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete prompt template", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nonNil evita guardar null en columnas jsonb NOT NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
