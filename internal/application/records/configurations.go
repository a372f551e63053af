package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// Las configuraciones por paso se reemplazan completas: un segundo Save del mismo tenant
// reutiliza el id y created_at del registro anterior.

// SaveAPIConfiguration guarda las llaves del tenant.
func (s *Store) SaveAPIConfiguration(ctx context.Context, in *entity.APIConfiguration) (*entity.APIConfiguration, error) {
	c := *in
	prev, err := s.repos.APIConfigs.GetByTenant(ctx, c.TenantID)
	if err != nil {
		return nil, fmt.Errorf("buscar configuración de API: %w", err)
	}
	now := s.now()
	c.CreatedAt = now
	if prev != nil {
		c.ID, c.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		c.ID = identity(c.ID)
	}
	c.UpdatedAt = now
	if err := s.repos.APIConfigs.Upsert(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// APIConfiguration obtiene la configuración de llaves del tenant.
func (s *Store) APIConfiguration(ctx context.Context, tenantID string) (*entity.APIConfiguration, error) {
	if !IsExistingID(tenantID) {
		return nil, nil
	}
	return s.repos.APIConfigs.GetByTenant(ctx, tenantID)
}

// SaveERPConfiguration guarda la integración ERP del tenant.
func (s *Store) SaveERPConfiguration(ctx context.Context, in *entity.ERPConfiguration) (*entity.ERPConfiguration, error) {
	c := *in
	prev, err := s.repos.ERPConfigs.GetByTenant(ctx, c.TenantID)
	if err != nil {
		return nil, fmt.Errorf("buscar configuración ERP: %w", err)
	}
	now := s.now()
	c.CreatedAt = now
	if prev != nil {
		c.ID, c.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		c.ID = identity(c.ID)
	}
	c.UpdatedAt = now
	if err := s.repos.ERPConfigs.Upsert(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ERPConfiguration obtiene la integración ERP del tenant.
func (s *Store) ERPConfiguration(ctx context.Context, tenantID string) (*entity.ERPConfiguration, error) {
	if !IsExistingID(tenantID) {
		return nil, nil
	}
	return s.repos.ERPConfigs.GetByTenant(ctx, tenantID)
}

// SaveAdvancedConfiguration guarda los ajustes avanzados del tenant.
func (s *Store) SaveAdvancedConfiguration(ctx context.Context, in *entity.AdvancedConfiguration) (*entity.AdvancedConfiguration, error) {
	c := *in
	prev, err := s.repos.Advanced.GetByTenant(ctx, c.TenantID)
	if err != nil {
		return nil, fmt.Errorf("buscar configuración avanzada: %w", err)
	}
	now := s.now()
	c.CreatedAt = now
	if prev != nil {
		c.ID, c.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		c.ID = identity(c.ID)
	}
	c.UpdatedAt = now
	if err := s.repos.Advanced.Upsert(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AdvancedConfiguration obtiene los ajustes avanzados del tenant.
func (s *Store) AdvancedConfiguration(ctx context.Context, tenantID string) (*entity.AdvancedConfiguration, error) {
	if !IsExistingID(tenantID) {
		return nil, nil
	}
	return s.repos.Advanced.GetByTenant(ctx, tenantID)
}

// SaveAssistant inserta o actualiza un asistente. Un id que pertenece a otro tenant se
// reporta como domain.ErrNotFound.
func (s *Store) SaveAssistant(ctx context.Context, in *entity.Assistant) (*entity.Assistant, error) {
	a := *in
	now := s.now()
	a.CreatedAt = now
	if IsExistingID(a.ID) {
		prev, err := s.repos.Assistants.GetByID(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("buscar asistente: %w", err)
		}
		if prev != nil {
			if prev.TenantID != a.TenantID {
				return nil, fmt.Errorf("asistente %s: %w", a.ID, domain.ErrNotFound)
			}
			a.CreatedAt = prev.CreatedAt
		}
	} else {
		a.ID = uuid.New().String()
	}
	a.UpdatedAt = now
	if err := s.repos.Assistants.Upsert(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Assistants lista los asistentes del tenant.
func (s *Store) Assistants(ctx context.Context, tenantID string) ([]*entity.Assistant, error) {
	if !IsExistingID(tenantID) {
		return nil, nil
	}
	return s.repos.Assistants.ListByTenant(ctx, tenantID)
}

// SaveProgress guarda el registro de progreso (uno por tenant).
func (s *Store) SaveProgress(ctx context.Context, in *entity.OnboardingProgress) (*entity.OnboardingProgress, error) {
	p := *in
	prev, err := s.repos.Progress.GetByTenant(ctx, p.TenantID)
	if err != nil {
		return nil, fmt.Errorf("buscar progreso: %w", err)
	}
	now := s.now()
	p.CreatedAt = now
	if prev != nil {
		p.ID, p.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		p.ID = identity(p.ID)
	}
	if p.TotalSteps == 0 {
		p.TotalSteps = entity.OnboardingTotalSteps
	}
	p.UpdatedAt = now
	if err := s.repos.Progress.Upsert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Progress obtiene el progreso del tenant.
func (s *Store) Progress(ctx context.Context, tenantID string) (*entity.OnboardingProgress, error) {
	if !IsExistingID(tenantID) {
		return nil, nil
	}
	return s.repos.Progress.GetByTenant(ctx, tenantID)
}

// identity conserva id si es válido; si no, genera uno nuevo.
func identity(id string) string {
	if IsExistingID(id) {
		return id
	}
	return uuid.New().String()
}
