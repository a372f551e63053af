// Package records implementa el Record Store del onboarding: acceso genérico de
// lectura/escritura por entidad sobre los puertos de repository, con la política de
// identidad (id existente solo si es un UUID válido) y la coalescencia de duplicados
// para reintentos del paso 1.
package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/document"
)

// Store aplica la política de identidad sobre un conjunto de repositorios.
// Save* es insert-or-update y devuelve una copia con los campos asignados por el store;
// Get* devuelve (nil, nil) cuando el registro no existe.
type Store struct {
	repos repository.Repositories
	now   func() time.Time
}

// New construye el store sobre los repositorios (pool o tx).
func New(repos repository.Repositories) *Store {
	return &Store{repos: repos, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// IsExistingID informa si id tiene formato de identificador generado.
// Cualquier otro valor (vacío, ids temporales de UI) se trata como registro nuevo.
func IsExistingID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ── Tenant ────────────────────────────────────────────────────────────────────

// SaveTenant inserta o actualiza un tenant. El documento se guarda solo con dígitos. Si el id
// no es válido busca antes un tenant con el mismo documento y email de admin: un reintento del
// paso 1 actualiza ese registro en lugar de crear uno segundo.
func (s *Store) SaveTenant(ctx context.Context, in *entity.Tenant, adminEmail string) (*entity.Tenant, error) {
	t := *in
	t.Document = document.Digits(t.Document)
	now := s.now()
	t.UpdatedAt = now

	var existing *entity.Tenant
	var err error
	if IsExistingID(t.ID) {
		existing, err = s.repos.Tenants.GetByID(ctx, t.ID)
	} else if t.Document != "" && adminEmail != "" {
		existing, err = s.repos.Tenants.GetByDocumentAndAdminEmail(ctx, t.Document, adminEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}

	if existing != nil {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		if t.PipeeloToken == nil {
			t.PipeeloToken = existing.PipeeloToken
		}
		if err := s.repos.Tenants.Update(ctx, &t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	if !IsExistingID(t.ID) {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = now
	if err := s.repos.Tenants.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TenantByNaturalKey busca el tenant por documento (solo dígitos) y email del administrador.
func (s *Store) TenantByNaturalKey(ctx context.Context, doc, adminEmail string) (*entity.Tenant, error) {
	doc = document.Digits(doc)
	if doc == "" || adminEmail == "" {
		return nil, nil
	}
	return s.repos.Tenants.GetByDocumentAndAdminEmail(ctx, doc, adminEmail)
}

// SetTenantToken persiste el token permanente sobre el tenant.
func (s *Store) SetTenantToken(ctx context.Context, tenantID, token string) (*entity.Tenant, error) {
	t, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tenant %s no encontrado", tenantID)
	}
	t.PipeeloToken = &token
	t.UpdatedAt = s.now()
	if err := s.repos.Tenants.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTenant obtiene un tenant por id.
func (s *Store) GetTenant(ctx context.Context, id string) (*entity.Tenant, error) {
	if !IsExistingID(id) {
		return nil, nil
	}
	return s.repos.Tenants.GetByID(ctx, id)
}

// ── Address ───────────────────────────────────────────────────────────────────

// SaveAddress inserta o actualiza una dirección.
func (s *Store) SaveAddress(ctx context.Context, in *entity.Address) (*entity.Address, error) {
	a := *in
	now := s.now()
	a.UpdatedAt = now
	if IsExistingID(a.ID) {
		existing, err := s.repos.Addresses.GetByID(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("buscar dirección: %w", err)
		}
		if existing != nil {
			a.CreatedAt = existing.CreatedAt
			if err := s.repos.Addresses.Update(ctx, &a); err != nil {
				return nil, err
			}
			return &a, nil
		}
	} else {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = now
	if err := s.repos.Addresses.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAddress obtiene una dirección por id.
func (s *Store) GetAddress(ctx context.Context, id string) (*entity.Address, error) {
	if !IsExistingID(id) {
		return nil, nil
	}
	return s.repos.Addresses.GetByID(ctx, id)
}

// ── User ──────────────────────────────────────────────────────────────────────

// SaveUser inserta o actualiza un usuario; sin id válido se coalesce por (tenant, email).
// Un id de otro tenant se reporta como domain.ErrNotFound.
func (s *Store) SaveUser(ctx context.Context, in *entity.User) (*entity.User, error) {
	u := *in
	now := s.now()
	u.UpdatedAt = now

	var existing *entity.User
	var err error
	if IsExistingID(u.ID) {
		existing, err = s.repos.Users.GetByID(ctx, u.ID)
	} else if u.TenantID != "" && u.Email != "" {
		existing, err = s.repos.Users.GetByEmailAndTenant(ctx, u.Email, u.TenantID)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		if existing.TenantID != u.TenantID {
			return nil, fmt.Errorf("usuario %s: %w", u.ID, domain.ErrNotFound)
		}
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		if err := s.repos.Users.Update(ctx, &u); err != nil {
			return nil, err
		}
		return &u, nil
	}
	if !IsExistingID(u.ID) {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = now
	if err := s.repos.Users.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AdminUser obtiene el usuario del tenant con rol admin.
func (s *Store) AdminUser(ctx context.Context, tenantID string) (*entity.User, error) {
	if !IsExistingID(tenantID) {
		return nil, nil
	}
	return s.repos.Users.GetByTenantAndRole(ctx, tenantID, entity.RoleAdmin)
}
