package repository

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure. Get* devuelve (nil, nil) si no existe.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	Update(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	// GetByDocumentAndAdminEmail busca por llave natural: documento + email del usuario admin.
	GetByDocumentAndAdminEmail(ctx context.Context, document, adminEmail string) (*entity.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
	Delete(ctx context.Context, id string) error
}

// AddressRepository puerto de persistencia para Address.
type AddressRepository interface {
	Create(ctx context.Context, address *entity.Address) error
	Update(ctx context.Context, address *entity.Address) error
	GetByID(ctx context.Context, id string) (*entity.Address, error)
}
