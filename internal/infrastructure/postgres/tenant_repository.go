package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// Asegura que TenantRepo implementa repository.TenantRepository.
var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, name, document, phone, email, website, sector, address_id, pipeelo_token, created_at, updated_at`

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para tenants.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste un nuevo tenant.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.Document, t.Phone, t.Email, t.Website, t.Sector,
		t.AddressID, t.PipeeloToken, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert tenant", err)
	}
	return nil
}

// Update actualiza un tenant existente.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	query := `
		UPDATE tenants SET name = $2, document = $3, phone = $4, email = $5, website = $6,
		       sector = $7, address_id = $8, pipeelo_token = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.Document, t.Phone, t.Email, t.Website, t.Sector,
		t.AddressID, t.PipeeloToken, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update tenant", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetByDocumentAndAdminEmail obtiene el tenant cuyo documento coincide (comparando solo dígitos)
// y cuyo admin tiene ese email.
func (r *TenantRepo) GetByDocumentAndAdminEmail(ctx context.Context, document, adminEmail string) (*entity.Tenant, error) {
	query := `
		SELECT t.id, t.name, t.document, t.phone, t.email, t.website, t.sector, t.address_id,
		       t.pipeelo_token, t.created_at, t.updated_at
		FROM tenants t
		JOIN users u ON u.tenant_id = t.id AND u.role = 'admin'
		WHERE regexp_replace(t.document, '[^0-9]', '', 'g') = $1 AND lower(u.email) = lower($2)
		ORDER BY t.created_at
		LIMIT 1`
	t, err := scanTenant(r.q.QueryRow(ctx, query, document, adminEmail))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by natural key: %w", err)
	}
	return t, nil
}

// List devuelve tenants con paginación.
func (r *TenantRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete elimina un tenant; las tablas dependientes usan ON DELETE CASCADE.
func (r *TenantRepo) Delete(ctx context.Context, id string) error {
	// Las tablas hijas caen por ON DELETE CASCADE; la dirección es exclusiva del tenant.
	_, err := r.q.Exec(ctx, `
		WITH deleted AS (DELETE FROM tenants WHERE id = $1 RETURNING address_id)
		DELETE FROM addresses WHERE id IN (SELECT address_id FROM deleted WHERE address_id IS NOT NULL)`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Document, &t.Phone, &t.Email, &t.Website, &t.Sector,
		&t.AddressID, &t.PipeeloToken, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ── Address ───────────────────────────────────────────────────────────────────

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo implementación de AddressRepository sobre PostgreSQL.
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador de direcciones.
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

// Create persiste una dirección.
func (r *AddressRepo) Create(ctx context.Context, a *entity.Address) error {
	query := `
		INSERT INTO addresses (id, street, number, neighborhood, country, state, city, complement, postal_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Street, a.Number, a.Neighborhood, a.Country, a.State, a.City,
		a.Complement, a.PostalCode, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert address", err)
	}
	return nil
}

// Update actualiza una dirección.
func (r *AddressRepo) Update(ctx context.Context, a *entity.Address) error {
	query := `
		UPDATE addresses SET street = $2, number = $3, neighborhood = $4, country = $5, state = $6,
		       city = $7, complement = $8, postal_code = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Street, a.Number, a.Neighborhood, a.Country, a.State, a.City,
		a.Complement, a.PostalCode, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update address", err)
	}
	return nil
}

// GetByID obtiene una dirección por ID.
func (r *AddressRepo) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	query := `
		SELECT id, street, number, neighborhood, country, state, city, complement, postal_code, created_at, updated_at
		FROM addresses WHERE id = $1`
	var a entity.Address
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Street, &a.Number, &a.Neighborhood, &a.Country, &a.State, &a.City,
		&a.Complement, &a.PostalCode, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}
