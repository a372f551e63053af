package repository

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// OnboardingProgressRepository puerto para el registro de reanudación (uno por tenant).
type OnboardingProgressRepository interface {
	Upsert(ctx context.Context, progress *entity.OnboardingProgress) error
	GetByID(ctx context.Context, id string) (*entity.OnboardingProgress, error)
	GetByTenant(ctx context.Context, tenantID string) (*entity.OnboardingProgress, error)
}

// TemplateRepository fuente de lectura del catálogo de plantillas.
type TemplateRepository interface {
	ListERPTemplates(ctx context.Context) ([]entity.ERPTemplate, error)
	ListPromptTemplates(ctx context.Context) ([]entity.PromptTemplate, error)
}

// TemplateAdminRepository escritura del catálogo desde el panel. Update y Delete devuelven
// domain.ErrNotFound si la plantilla no existe; Delete devuelve *domain.ConstraintError si
// alguna configuración la referencia.
type TemplateAdminRepository interface {
	TemplateRepository
	CreateERPTemplate(ctx context.Context, tpl *entity.ERPTemplate) error
	UpdateERPTemplate(ctx context.Context, tpl *entity.ERPTemplate) error
	DeleteERPTemplate(ctx context.Context, id string) error
	CreatePromptTemplate(ctx context.Context, tpl *entity.PromptTemplate) error
	UpdatePromptTemplate(ctx context.Context, tpl *entity.PromptTemplate) error
	DeletePromptTemplate(ctx context.Context, id string) error
}

// Repositories agrupa los puertos del Record Store; una implementación puede atarlos a una tx.
type Repositories struct {
	Tenants    TenantRepository
	Addresses  AddressRepository
	Users      UserRepository
	APIConfigs APIConfigurationRepository
	ERPConfigs ERPConfigurationRepository
	Assistants AssistantRepository
	Advanced   AdvancedConfigurationRepository
	Progress   OnboardingProgressRepository
}

// TxRunner ejecuta fn con repositorios atados a una transacción: Commit si fn retorna nil,
// Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
