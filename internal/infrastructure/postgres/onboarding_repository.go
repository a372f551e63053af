package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.OnboardingProgressRepository = (*OnboardingProgressRepo)(nil)

// OnboardingProgressRepo registro de reanudación sobre PostgreSQL (UNIQUE tenant_id).
type OnboardingProgressRepo struct {
	q Querier
}

// NewOnboardingProgressRepository construye el adaptador.
func NewOnboardingProgressRepository(q Querier) *OnboardingProgressRepo {
	return &OnboardingProgressRepo{q: q}
}

// Upsert inserta o reemplaza el progreso del tenant.
func (r *OnboardingProgressRepo) Upsert(ctx context.Context, p *entity.OnboardingProgress) error {
	query := `
		INSERT INTO onboarding_progress (id, tenant_id, status, current_step, total_steps, deployment_url, deployed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id) DO UPDATE SET
			status = EXCLUDED.status,
			current_step = EXCLUDED.current_step,
			total_steps = EXCLUDED.total_steps,
			deployment_url = EXCLUDED.deployment_url,
			deployed_at = EXCLUDED.deployed_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.Status, p.CurrentStep, p.TotalSteps,
		p.DeploymentURL, p.DeployedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("upsert onboarding progress", err)
	}
	return nil
}

// GetByID obtiene el progreso por ID.
func (r *OnboardingProgressRepo) GetByID(ctx context.Context, id string) (*entity.OnboardingProgress, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// GetByTenant obtiene el progreso del tenant.
func (r *OnboardingProgressRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.OnboardingProgress, error) {
	return r.findOne(ctx, `WHERE tenant_id = $1`, tenantID)
}

func (r *OnboardingProgressRepo) findOne(ctx context.Context, where string, arg string) (*entity.OnboardingProgress, error) {
	query := `
		SELECT id, tenant_id, status, current_step, total_steps, deployment_url, deployed_at, created_at, updated_at
		FROM onboarding_progress ` + where
	var p entity.OnboardingProgress
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.TenantID, &p.Status, &p.CurrentStep, &p.TotalSteps,
		&p.DeploymentURL, &p.DeployedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get onboarding progress: %w", err)
	}
	return &p, nil
}
