package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.APIConfigurationRepository      = (*APIConfigurationRepo)(nil)
	_ repository.ERPConfigurationRepository      = (*ERPConfigurationRepo)(nil)
	_ repository.AdvancedConfigurationRepository = (*AdvancedConfigurationRepo)(nil)
)

// Las tablas de configuración tienen UNIQUE (tenant_id); Upsert reemplaza la fila del tenant.

// APIConfigurationRepo llaves de proveedores sobre PostgreSQL.
type APIConfigurationRepo struct {
	q Querier
}

// NewAPIConfigurationRepository construye el adaptador.
func NewAPIConfigurationRepository(q Querier) *APIConfigurationRepo {
	return &APIConfigurationRepo{q: q}
}

// Upsert inserta o reemplaza la configuración del tenant.
func (r *APIConfigurationRepo) Upsert(ctx context.Context, c *entity.APIConfiguration) error {
	query := `
		INSERT INTO api_configurations (id, tenant_id, openai_key, openrouter_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			openai_key = EXCLUDED.openai_key,
			openrouter_key = EXCLUDED.openrouter_key,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, c.ID, c.TenantID, c.OpenAIKey, c.OpenRouterKey, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapWriteError("upsert api configuration", err)
	}
	return nil
}

// GetByID obtiene la configuración por ID.
func (r *APIConfigurationRepo) GetByID(ctx context.Context, id string) (*entity.APIConfiguration, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// GetByTenant obtiene la configuración del tenant.
func (r *APIConfigurationRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.APIConfiguration, error) {
	return r.findOne(ctx, `WHERE tenant_id = $1`, tenantID)
}

func (r *APIConfigurationRepo) findOne(ctx context.Context, where string, arg string) (*entity.APIConfiguration, error) {
	query := `SELECT id, tenant_id, openai_key, openrouter_key, created_at, updated_at FROM api_configurations ` + where
	var c entity.APIConfiguration
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.TenantID, &c.OpenAIKey, &c.OpenRouterKey, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api configuration: %w", err)
	}
	return &c, nil
}

// ERPConfigurationRepo integración ERP sobre PostgreSQL. Fields se guarda como jsonb.
type ERPConfigurationRepo struct {
	q Querier
}

// NewERPConfigurationRepository construye el adaptador.
func NewERPConfigurationRepository(q Querier) *ERPConfigurationRepo {
	return &ERPConfigurationRepo{q: q}
}

// Upsert inserta o reemplaza la configuración ERP del tenant.
func (r *ERPConfigurationRepo) Upsert(ctx context.Context, c *entity.ERPConfiguration) error {
	query := `
		INSERT INTO erp_configurations (id, tenant_id, erp_template_id, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			erp_template_id = EXCLUDED.erp_template_id,
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at`
	fields := c.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	_, err := r.q.Exec(ctx, query, c.ID, c.TenantID, c.TemplateID, fields, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapWriteError("upsert erp configuration", err)
	}
	return nil
}

// GetByID obtiene la configuración ERP por ID.
func (r *ERPConfigurationRepo) GetByID(ctx context.Context, id string) (*entity.ERPConfiguration, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// GetByTenant obtiene la configuración ERP del tenant.
func (r *ERPConfigurationRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.ERPConfiguration, error) {
	return r.findOne(ctx, `WHERE tenant_id = $1`, tenantID)
}

func (r *ERPConfigurationRepo) findOne(ctx context.Context, where string, arg string) (*entity.ERPConfiguration, error) {
	query := `SELECT id, tenant_id, erp_template_id, fields, created_at, updated_at FROM erp_configurations ` + where
	var c entity.ERPConfiguration
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.TenantID, &c.TemplateID, &c.Fields, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get erp configuration: %w", err)
	}
	return &c, nil
}

// AdvancedConfigurationRepo ajustes avanzados sobre PostgreSQL.
type AdvancedConfigurationRepo struct {
	q Querier
}

// NewAdvancedConfigurationRepository construye el adaptador.
func NewAdvancedConfigurationRepository(q Querier) *AdvancedConfigurationRepo {
	return &AdvancedConfigurationRepo{q: q}
}

// Upsert inserta o reemplaza los ajustes del tenant.
func (r *AdvancedConfigurationRepo) Upsert(ctx context.Context, c *entity.AdvancedConfiguration) error {
	query := `
		INSERT INTO advanced_configurations (id, tenant_id, timezone, language, business_hours, webhook_url, max_concurrent_chats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			language = EXCLUDED.language,
			business_hours = EXCLUDED.business_hours,
			webhook_url = EXCLUDED.webhook_url,
			max_concurrent_chats = EXCLUDED.max_concurrent_chats,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.TenantID, c.Timezone, c.Language, c.BusinessHours, c.WebhookURL,
		c.MaxConcurrentChats, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("upsert advanced configuration", err)
	}
	return nil
}

// GetByID obtiene los ajustes por ID.
func (r *AdvancedConfigurationRepo) GetByID(ctx context.Context, id string) (*entity.AdvancedConfiguration, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// GetByTenant obtiene los ajustes del tenant.
func (r *AdvancedConfigurationRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.AdvancedConfiguration, error) {
	return r.findOne(ctx, `WHERE tenant_id = $1`, tenantID)
}

func (r *AdvancedConfigurationRepo) findOne(ctx context.Context, where string, arg string) (*entity.AdvancedConfiguration, error) {
	query := `
		SELECT id, tenant_id, timezone, language, business_hours, webhook_url, max_concurrent_chats, created_at, updated_at
		FROM advanced_configurations ` + where
	var c entity.AdvancedConfiguration
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.TenantID, &c.Timezone, &c.Language, &c.BusinessHours, &c.WebhookURL,
		&c.MaxConcurrentChats, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get advanced configuration: %w", err)
	}
	return &c, nil
}
