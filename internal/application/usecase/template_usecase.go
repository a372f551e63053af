package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// TemplateUseCase catálogo de plantillas: lectura para el asistente y administración para el panel.
// Toda escritura invalida el caché del catálogo.
type TemplateUseCase struct {
	catalog *catalog.Catalog
	repo    repository.TemplateAdminRepository
}

// NewTemplateUseCase construye el caso de uso sobre el catálogo y su fuente.
func NewTemplateUseCase(cat *catalog.Catalog, repo repository.TemplateAdminRepository) *TemplateUseCase {
	return &TemplateUseCase{catalog: cat, repo: repo}
}

// ListERP catálogo de integraciones ERP; vacío si el catálogo no pudo cargarse.
func (uc *TemplateUseCase) ListERP(ctx context.Context) dto.ERPTemplateListResponse {
	return dto.ERPTemplateListResponse{Items: uc.catalog.ListERPTemplates(ctx)}
}

// ListPrompts catálogo de prompts con los marcadores de cada cuerpo.
func (uc *TemplateUseCase) ListPrompts(ctx context.Context) dto.PromptTemplateListResponse {
	list := uc.catalog.ListPromptTemplates(ctx)
	items := make([]dto.PromptTemplateResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toPromptTemplateResponse(p))
	}
	return dto.PromptTemplateListResponse{Items: items}
}

// ── Plantillas ERP ────────────────────────────────────────────────────────────

// CreateERP registra una plantilla ERP nueva.
func (uc *TemplateUseCase) CreateERP(ctx context.Context, in dto.ERPTemplateRequest) (*entity.ERPTemplate, error) {
	tpl, err := erpTemplateFrom(uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateERPTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("crear plantilla ERP: %w", err)
	}
	uc.catalog.Invalidate()
	return tpl, nil
}

// UpdateERP reemplaza la plantilla. domain.ErrNotFound si no existe.
func (uc *TemplateUseCase) UpdateERP(ctx context.Context, id string, in dto.ERPTemplateRequest) (*entity.ERPTemplate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	tpl, err := erpTemplateFrom(id, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateERPTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("actualizar plantilla ERP: %w", err)
	}
	uc.catalog.Invalidate()
	return tpl, nil
}

// DeleteERP elimina la plantilla. *domain.ConstraintError si algún tenant la usa.
func (uc *TemplateUseCase) DeleteERP(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.DeleteERPTemplate(ctx, id); err != nil {
		return fmt.Errorf("eliminar plantilla ERP: %w", err)
	}
	uc.catalog.Invalidate()
	return nil
}

// ── Plantillas de prompt ──────────────────────────────────────────────────────

// CreatePrompt registra una plantilla de prompt nueva.
func (uc *TemplateUseCase) CreatePrompt(ctx context.Context, in dto.PromptTemplateRequest) (*dto.PromptTemplateResponse, error) {
	tpl, err := promptTemplateFrom(uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreatePromptTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("crear plantilla de prompt: %w", err)
	}
	uc.catalog.Invalidate()
	out := toPromptTemplateResponse(*tpl)
	return &out, nil
}

// UpdatePrompt reemplaza la plantilla. domain.ErrNotFound si no existe.
func (uc *TemplateUseCase) UpdatePrompt(ctx context.Context, id string, in dto.PromptTemplateRequest) (*dto.PromptTemplateResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	tpl, err := promptTemplateFrom(id, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdatePromptTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("actualizar plantilla de prompt: %w", err)
	}
	uc.catalog.Invalidate()
	out := toPromptTemplateResponse(*tpl)
	return &out, nil
}

// DeletePrompt elimina la plantilla. *domain.ConstraintError si algún asistente la usa.
func (uc *TemplateUseCase) DeletePrompt(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.DeletePromptTemplate(ctx, id); err != nil {
		return fmt.Errorf("eliminar plantilla de prompt: %w", err)
	}
	uc.catalog.Invalidate()
	return nil
}

// ── Validación ────────────────────────────────────────────────────────────────

var fieldTypes = map[string]bool{
	entity.FieldTypeText:     true,
	entity.FieldTypePassword: true,
	entity.FieldTypeURL:      true,
	entity.FieldTypeNumber:   true,
}

func erpTemplateFrom(id string, in dto.ERPTemplateRequest) (*entity.ERPTemplate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la plantilla es obligatorio", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Fields))
	fields := make([]entity.ERPTemplateField, 0, len(in.Fields))
	for _, f := range in.Fields {
		f.Name = strings.TrimSpace(f.Name)
		switch {
		case f.Name == "":
			return nil, fmt.Errorf("%w: todos los campos necesitan nombre", domain.ErrInvalidInput)
		case seen[f.Name]:
			return nil, fmt.Errorf("%w: campo %q repetido", domain.ErrInvalidInput, f.Name)
		}
		if f.Type == "" {
			f.Type = entity.FieldTypeText
		}
		if !fieldTypes[f.Type] {
			return nil, fmt.Errorf("%w: tipo de campo %q no soportado", domain.ErrInvalidInput, f.Type)
		}
		seen[f.Name] = true
		fields = append(fields, f)
	}
	commands := make([]entity.ERPCommand, 0, len(in.Commands))
	for _, c := range in.Commands {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: todos los comandos necesitan nombre", domain.ErrInvalidInput)
		}
		commands = append(commands, c)
	}
	return &entity.ERPTemplate{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Fields:      fields,
		Commands:    commands,
	}, nil
}

func promptTemplateFrom(id string, in dto.PromptTemplateRequest) (*entity.PromptTemplate, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: el nombre de la plantilla es obligatorio", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Body) == "":
		return nil, fmt.Errorf("%w: el cuerpo del prompt es obligatorio", domain.ErrInvalidInput)
	}
	return &entity.PromptTemplate{ID: id, Name: name, Description: in.Description, Body: in.Body}, nil
}

func toPromptTemplateResponse(p entity.PromptTemplate) dto.PromptTemplateResponse {
	return dto.PromptTemplateResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Body:         p.Body,
		Placeholders: catalog.Placeholders(p.Body),
	}
}
