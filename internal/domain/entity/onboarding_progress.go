package entity

import "time"

// Estados del onboarding de un tenant.
const (
	OnboardingStatusDraft      = "draft"
	OnboardingStatusInProgress = "in_progress"
	OnboardingStatusCompleted  = "completed"
	OnboardingStatusDeployed   = "deployed"
	OnboardingStatusFailed     = "failed"
)

// OnboardingTotalSteps número de pasos lógicos del asistente (incluye el paso 5, hoy omitido).
const OnboardingTotalSteps = 7

// OnboardingProgress registro de reanudación: uno por tenant.
type OnboardingProgress struct {
	ID            string
	TenantID      string
	Status        string
	CurrentStep   int // 1-based
	TotalSteps    int
	DeploymentURL *string
	DeployedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
