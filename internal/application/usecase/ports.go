package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// TenantSummary datos del resumen imprimible de un tenant.
type TenantSummary struct {
	Tenant          entity.Tenant
	Address         *entity.Address
	Admin           *entity.User
	Progress        *entity.OnboardingProgress
	ERPTemplateName string
	Assistants      []entity.Assistant
	Advanced        *entity.AdvancedConfiguration
	GeneratedAt     time.Time
}

// DeploymentURL URL publicada o "" si el tenant no se ha desplegado.
func (s TenantSummary) DeploymentURL() string {
	if s.Progress != nil && s.Progress.DeploymentURL != nil {
		return *s.Progress.DeploymentURL
	}
	return ""
}

// SummaryPDFGenerator puerto para generar el PDF de resumen del onboarding.
// La implementación vive en infrastructure/pdf.
type SummaryPDFGenerator interface {
	GenerateTenantSummary(ctx context.Context, summary TenantSummary) ([]byte, error)
}
