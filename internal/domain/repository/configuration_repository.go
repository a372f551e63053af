package repository

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// Las configuraciones por paso son únicas por tenant: Upsert reemplaza el registro completo.

// APIConfigurationRepository puerto para la configuración de llaves (paso 2).
type APIConfigurationRepository interface {
	Upsert(ctx context.Context, cfg *entity.APIConfiguration) error
	GetByID(ctx context.Context, id string) (*entity.APIConfiguration, error)
	GetByTenant(ctx context.Context, tenantID string) (*entity.APIConfiguration, error)
}

// ERPConfigurationRepository puerto para la integración ERP (paso 3).
type ERPConfigurationRepository interface {
	Upsert(ctx context.Context, cfg *entity.ERPConfiguration) error
	GetByID(ctx context.Context, id string) (*entity.ERPConfiguration, error)
	GetByTenant(ctx context.Context, tenantID string) (*entity.ERPConfiguration, error)
}

// AdvancedConfigurationRepository puerto para ajustes avanzados (paso 6).
type AdvancedConfigurationRepository interface {
	Upsert(ctx context.Context, cfg *entity.AdvancedConfiguration) error
	GetByID(ctx context.Context, id string) (*entity.AdvancedConfiguration, error)
	GetByTenant(ctx context.Context, tenantID string) (*entity.AdvancedConfiguration, error)
}

// AssistantRepository puerto para asistentes (paso 4).
type AssistantRepository interface {
	Upsert(ctx context.Context, assistant *entity.Assistant) error
	GetByID(ctx context.Context, id string) (*entity.Assistant, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Assistant, error)
}
