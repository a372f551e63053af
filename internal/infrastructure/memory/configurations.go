package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.APIConfigurationRepository      = (*APIConfigRepo)(nil)
	_ repository.ERPConfigurationRepository      = (*ERPConfigRepo)(nil)
	_ repository.AdvancedConfigurationRepository = (*AdvancedConfigRepo)(nil)
	_ repository.AssistantRepository             = (*AssistantRepo)(nil)
	_ repository.OnboardingProgressRepository    = (*ProgressRepo)(nil)
)

// APIConfigRepo configuración de llaves en memoria (una por tenant).
type APIConfigRepo struct {
	db *DB
	j  *journal
}

// Upsert reemplaza la configuración del tenant.
func (r *APIConfigRepo) Upsert(_ context.Context, c *entity.APIConfiguration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.requireTenant("api_configurations", c.TenantID); err != nil {
		return err
	}
	track(r.j, r.db.apiConfigs, c.TenantID)
	r.db.apiConfigs[c.TenantID] = *c
	return nil
}

// GetByID busca por id.
func (r *APIConfigRepo) GetByID(_ context.Context, id string) (*entity.APIConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.apiConfigs {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

// GetByTenant busca la configuración del tenant.
func (r *APIConfigRepo) GetByTenant(_ context.Context, tenantID string) (*entity.APIConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.apiConfigs[tenantID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ERPConfigRepo configuración ERP en memoria.
type ERPConfigRepo struct {
	db *DB
	j  *journal
}

// Upsert reemplaza la configuración ERP; valida la plantilla como lo haría la FK.
func (r *ERPConfigRepo) Upsert(_ context.Context, c *entity.ERPConfiguration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.requireTenant("erp_configurations", c.TenantID); err != nil {
		return err
	}
	if !r.db.hasERPTemplate(c.TemplateID) {
		return &domain.ConstraintError{Constraint: "erp_configurations_erp_template_id_fkey", Field: domain.FieldERPTemplateID}
	}
	cp := *c
	cp.Fields = copyFields(c.Fields)
	track(r.j, r.db.erpConfigs, c.TenantID)
	r.db.erpConfigs[c.TenantID] = cp
	return nil
}

// GetByID busca por id.
func (r *ERPConfigRepo) GetByID(_ context.Context, id string) (*entity.ERPConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.erpConfigs {
		if c.ID == id {
			c.Fields = copyFields(c.Fields)
			return &c, nil
		}
	}
	return nil, nil
}

// GetByTenant busca la configuración ERP del tenant.
func (r *ERPConfigRepo) GetByTenant(_ context.Context, tenantID string) (*entity.ERPConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.erpConfigs[tenantID]
	if !ok {
		return nil, nil
	}
	c.Fields = copyFields(c.Fields)
	return &c, nil
}

// AdvancedConfigRepo ajustes avanzados en memoria.
type AdvancedConfigRepo struct {
	db *DB
	j  *journal
}

// Upsert reemplaza los ajustes del tenant.
func (r *AdvancedConfigRepo) Upsert(_ context.Context, c *entity.AdvancedConfiguration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.requireTenant("advanced_configurations", c.TenantID); err != nil {
		return err
	}
	track(r.j, r.db.advanced, c.TenantID)
	r.db.advanced[c.TenantID] = *c
	return nil
}

// GetByID busca por id.
func (r *AdvancedConfigRepo) GetByID(_ context.Context, id string) (*entity.AdvancedConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.advanced {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

// GetByTenant busca los ajustes del tenant.
func (r *AdvancedConfigRepo) GetByTenant(_ context.Context, tenantID string) (*entity.AdvancedConfiguration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.advanced[tenantID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// AssistantRepo asistentes en memoria.
type AssistantRepo struct {
	db *DB
	j  *journal
}

// Upsert inserta o reemplaza un asistente por id; nunca reasigna el asistente de otro tenant.
func (r *AssistantRepo) Upsert(_ context.Context, a *entity.Assistant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.requireTenant("assistants", a.TenantID); err != nil {
		return err
	}
	if a.PromptTemplateID != nil && !r.db.hasPromptTemplate(*a.PromptTemplateID) {
		return &domain.ConstraintError{Constraint: "assistants_prompt_template_id_fkey", Field: domain.FieldPromptTemplateID}
	}
	if prev, ok := r.db.assistants[a.ID]; ok && prev.TenantID != a.TenantID {
		return domain.ErrNotFound
	}
	track(r.j, r.db.assistants, a.ID)
	r.db.assistants[a.ID] = *a
	return nil
}

// GetByID obtiene un asistente.
func (r *AssistantRepo) GetByID(_ context.Context, id string) (*entity.Assistant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.assistants[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// ListByTenant lista los asistentes del tenant en orden de creación.
func (r *AssistantRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.Assistant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var list []*entity.Assistant
	for _, a := range r.db.assistants {
		if a.TenantID == tenantID {
			a := a
			list = append(list, &a)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ProgressRepo progreso de onboarding en memoria.
type ProgressRepo struct {
	db *DB
	j  *journal
}

// Upsert reemplaza el progreso del tenant.
func (r *ProgressRepo) Upsert(_ context.Context, p *entity.OnboardingProgress) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.requireTenant("onboarding_progress", p.TenantID); err != nil {
		return err
	}
	track(r.j, r.db.progress, p.TenantID)
	r.db.progress[p.TenantID] = *p
	return nil
}

// GetByID busca por id.
func (r *ProgressRepo) GetByID(_ context.Context, id string) (*entity.OnboardingProgress, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.progress {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// GetByTenant busca el progreso del tenant.
func (r *ProgressRepo) GetByTenant(_ context.Context, tenantID string) (*entity.OnboardingProgress, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.progress[tenantID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func copyFields(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
