package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	db *DB
	j  *journal
}

// Create persiste un usuario; el email es único por tenant.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.requireTenant("users", u.TenantID); err != nil {
		return err
	}
	for _, existing := range r.db.users {
		if existing.TenantID == u.TenantID && strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	track(r.j, r.db.users, u.ID)
	r.db.users[u.ID] = *u
	return nil
}

// Update actualiza un usuario.
func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	track(r.j, r.db.users, u.ID)
	r.db.users[u.ID] = *u
	return nil
}

// GetByID obtiene un usuario.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmailAndTenant obtiene un usuario por email dentro de un tenant.
func (r *UserRepo) GetByEmailAndTenant(_ context.Context, email, tenantID string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.TenantID == tenantID && strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

// GetByTenantAndRole obtiene el primer usuario (más antiguo) del tenant con ese rol.
func (r *UserRepo) GetByTenantAndRole(_ context.Context, tenantID, role string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var found *entity.User
	for _, u := range r.db.users {
		if u.TenantID != tenantID || u.Role != role {
			continue
		}
		if found == nil || u.CreatedAt.Before(found.CreatedAt) {
			u := u
			found = &u
		}
	}
	return found, nil
}

// ListByTenant lista usuarios de un tenant.
func (r *UserRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var list []*entity.User
	for _, u := range r.db.users {
		if u.TenantID == tenantID {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// Delete elimina un usuario.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	track(r.j, r.db.users, id)
	delete(r.db.users, id)
	return nil
}
