// Package memory implementa los puertos de repository en memoria. Se usa con
// STORE_DRIVER=memory (demo local) y en los tests de los casos de uso.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	doc "github.com/jhoicas/onboarding-api/pkg/document"
)

// DB estado compartido por todos los repositorios en memoria.
type DB struct {
	mu         sync.RWMutex
	tenants    map[string]entity.Tenant
	addresses  map[string]entity.Address
	users      map[string]entity.User
	apiConfigs map[string]entity.APIConfiguration // por tenant
	erpConfigs map[string]entity.ERPConfiguration // por tenant
	advanced   map[string]entity.AdvancedConfiguration
	progress   map[string]entity.OnboardingProgress
	assistants map[string]entity.Assistant

	erpTemplates    []entity.ERPTemplate
	promptTemplates []entity.PromptTemplate
}

// NewDB crea una base vacía con el catálogo indicado (se usa para validar llaves foráneas).
func NewDB(erpTemplates []entity.ERPTemplate, promptTemplates []entity.PromptTemplate) *DB {
	db := &DB{
		erpTemplates:    append([]entity.ERPTemplate(nil), erpTemplates...),
		promptTemplates: append([]entity.PromptTemplate(nil), promptTemplates...),
	}
	db.reset()
	return db
}

func (db *DB) reset() {
	db.tenants = make(map[string]entity.Tenant)
	db.addresses = make(map[string]entity.Address)
	db.users = make(map[string]entity.User)
	db.apiConfigs = make(map[string]entity.APIConfiguration)
	db.erpConfigs = make(map[string]entity.ERPConfiguration)
	db.advanced = make(map[string]entity.AdvancedConfiguration)
	db.progress = make(map[string]entity.OnboardingProgress)
	db.assistants = make(map[string]entity.Assistant)
}

// Repositories devuelve los puertos respaldados por esta base (fuera de transacción).
func (db *DB) Repositories() repository.Repositories {
	return db.repositories(nil)
}

func (db *DB) repositories(j *journal) repository.Repositories {
	return repository.Repositories{
		Tenants:    &TenantRepo{db: db, j: j},
		Addresses:  &AddressRepo{db: db, j: j},
		Users:      &UserRepo{db: db, j: j},
		APIConfigs: &APIConfigRepo{db: db, j: j},
		ERPConfigs: &ERPConfigRepo{db: db, j: j},
		Assistants: &AssistantRepo{db: db, j: j},
		Advanced:   &AdvancedConfigRepo{db: db, j: j},
		Progress:   &ProgressRepo{db: db, j: j},
	}
}

// Counts número de registros por tabla (tests y diagnóstico).
func (db *DB) Counts() map[string]int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return map[string]int{
		"tenants":    len(db.tenants),
		"addresses":  len(db.addresses),
		"users":      len(db.users),
		"api":        len(db.apiConfigs),
		"erp":        len(db.erpConfigs),
		"advanced":   len(db.advanced),
		"progress":   len(db.progress),
		"assistants": len(db.assistants),
	}
}

// requireTenant emula la llave foránea tenant_id. Llamar con db.mu tomado.
func (db *DB) requireTenant(table, tenantID string) error {
	if _, ok := db.tenants[tenantID]; !ok {
		return &domain.ConstraintError{Constraint: table + "_tenant_id_fkey", Field: domain.FieldTenantID}
	}
	return nil
}

// ── Tenants ───────────────────────────────────────────────────────────────────

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo tenants en memoria.
type TenantRepo struct {
	db *DB
	j  *journal
}

// Create persiste un nuevo tenant.
func (r *TenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tenants[t.ID]; ok {
		return domain.ErrDuplicate
	}
	if t.AddressID != nil {
		if _, ok := r.db.addresses[*t.AddressID]; !ok {
			return &domain.ConstraintError{Constraint: "tenants_address_id_fkey", Field: domain.FieldAddressID}
		}
	}
	track(r.j, r.db.tenants, t.ID)
	r.db.tenants[t.ID] = *t
	return nil
}

// Update actualiza un tenant existente.
func (r *TenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tenants[t.ID]; !ok {
		return domain.ErrNotFound
	}
	track(r.j, r.db.tenants, t.ID)
	r.db.tenants[t.ID] = *t
	return nil
}

// GetByID obtiene un tenant por id.
func (r *TenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// GetByDocumentAndAdminEmail busca un tenant cuyo admin tenga ese email.
func (r *TenantRepo) GetByDocumentAndAdminEmail(_ context.Context, document, adminEmail string) (*entity.Tenant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Role != entity.RoleAdmin || !strings.EqualFold(u.Email, adminEmail) {
			continue
		}
		if t, ok := r.db.tenants[u.TenantID]; ok && doc.Equal(t.Document, document) {
			return &t, nil
		}
	}
	return nil, nil
}

// List lista tenants por fecha de creación descendente.
func (r *TenantRepo) List(_ context.Context, limit, offset int) ([]*entity.Tenant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := make([]*entity.Tenant, 0, len(r.db.tenants))
	for _, t := range r.db.tenants {
		t := t
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// Delete elimina el tenant y sus registros dependientes (ON DELETE CASCADE).
func (r *TenantRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tenants[id]
	if !ok {
		return nil
	}
	if t.AddressID != nil {
		track(r.j, r.db.addresses, *t.AddressID)
		delete(r.db.addresses, *t.AddressID)
	}
	for uid, u := range r.db.users {
		if u.TenantID == id {
			track(r.j, r.db.users, uid)
			delete(r.db.users, uid)
		}
	}
	for aid, a := range r.db.assistants {
		if a.TenantID == id {
			track(r.j, r.db.assistants, aid)
			delete(r.db.assistants, aid)
		}
	}
	track(r.j, r.db.apiConfigs, id)
	track(r.j, r.db.erpConfigs, id)
	track(r.j, r.db.advanced, id)
	track(r.j, r.db.progress, id)
	track(r.j, r.db.tenants, id)
	delete(r.db.apiConfigs, id)
	delete(r.db.erpConfigs, id)
	delete(r.db.advanced, id)
	delete(r.db.progress, id)
	delete(r.db.tenants, id)
	return nil
}

// ── Addresses ─────────────────────────────────────────────────────────────────

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo direcciones en memoria.
type AddressRepo struct {
	db *DB
	j  *journal
}

// Create persiste una dirección.
func (r *AddressRepo) Create(_ context.Context, a *entity.Address) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.addresses[a.ID]; ok {
		return domain.ErrDuplicate
	}
	track(r.j, r.db.addresses, a.ID)
	r.db.addresses[a.ID] = *a
	return nil
}

// Update actualiza una dirección.
func (r *AddressRepo) Update(_ context.Context, a *entity.Address) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.addresses[a.ID]; !ok {
		return domain.ErrNotFound
	}
	track(r.j, r.db.addresses, a.ID)
	r.db.addresses[a.ID] = *a
	return nil
}

// GetByID obtiene una dirección.
func (r *AddressRepo) GetByID(_ context.Context, id string) (*entity.Address, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
