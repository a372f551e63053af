package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/records"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/document"
)

// TenantUseCase consultas y administración de tenants para el panel.
type TenantUseCase struct {
	repos     repository.Repositories
	store     *records.Store
	catalog   *catalog.Catalog
	generator SummaryPDFGenerator
	now       func() time.Time
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(repos repository.Repositories, cat *catalog.Catalog, generator SummaryPDFGenerator) *TenantUseCase {
	return &TenantUseCase{
		repos:     repos,
		store:     records.New(repos),
		catalog:   cat,
		generator: generator,
		now:       time.Now,
	}
}

// List lista tenants (más recientes primero) con su progreso.
func (uc *TenantUseCase) List(ctx context.Context, limit, offset int) (*dto.TenantListResponse, error) {
	tenants, err := uc.repos.Tenants.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar tenants: %w", err)
	}
	items := make([]dto.TenantListItem, 0, len(tenants))
	for _, t := range tenants {
		progress, err := uc.store.Progress(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("progreso de %s: %w", t.ID, err)
		}
		items = append(items, dto.TenantListItem{
			TenantResponse: *dto.ToTenantResponse(t),
			Progress:       dto.ToProgressResponse(progress),
		})
	}
	return &dto.TenantListResponse{
		Items: items,
		Page:  dto.NewPageResponse(limit, offset, len(items)),
	}, nil
}

// Get devuelve todo lo guardado de un tenant. domain.ErrNotFound si no existe.
func (uc *TenantUseCase) Get(ctx context.Context, id string) (*dto.TenantDetailResponse, error) {
	s, err := uc.collect(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.TenantDetailResponse{
		Tenant:     *dto.ToTenantResponse(&s.Tenant),
		Address:    dto.ToAddressResponse(s.Address),
		Admin:      dto.ToUserResponse(s.Admin),
		Progress:   dto.ToProgressResponse(s.Progress),
		Assistants: dto.ToAssistantResponses(s.Assistants),
		Advanced:   dto.ToAdvancedConfigResponse(s.Advanced),
	}

	api, err := uc.store.APIConfiguration(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("configuración de API: %w", err)
	}
	out.APIConfig = dto.ToAPIConfigResponse(api)

	erp, err := uc.store.ERPConfiguration(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("configuración ERP: %w", err)
	}
	if erp != nil {
		tpl, _ := uc.catalog.ERPTemplate(ctx, erp.TemplateID)
		out.ERPConfig = dto.ToERPConfigResponse(erp, tpl)
	}
	return out, nil
}

// Delete elimina el tenant con todos sus registros. domain.ErrNotFound si no existe.
func (uc *TenantUseCase) Delete(ctx context.Context, id string) error {
	t, err := uc.store.GetTenant(ctx, id)
	if err != nil {
		return fmt.Errorf("buscar tenant: %w", err)
	}
	if t == nil {
		return domain.ErrNotFound
	}
	return uc.repos.Tenants.Delete(ctx, id)
}

// Update edita los datos de la empresa. El token de aprovisionamiento y la dirección se
// conservan; los cambios no se replican a la plataforma remota.
func (uc *TenantUseCase) Update(ctx context.Context, id string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, fmt.Errorf("%w: el nombre de la empresa es obligatorio", domain.ErrInvalidInput)
	case document.Digits(in.Document) == "":
		return nil, fmt.Errorf("%w: el documento de la empresa es obligatorio", domain.ErrInvalidInput)
	}
	t, err := uc.store.GetTenant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Document = in.Document
	t.Phone = in.Phone
	t.Email = in.Email
	t.Website = in.Website
	t.Sector = in.Sector
	saved, err := uc.store.SaveTenant(ctx, t, "")
	if err != nil {
		return nil, fmt.Errorf("actualizar tenant: %w", err)
	}
	return dto.ToTenantResponse(saved), nil
}

// ── Usuarios del tenant ───────────────────────────────────────────────────────
//
// Cada tenant tiene exactamente un admin (el del paso 1): no se crea un segundo, no se
// degrada ni se elimina el existente. Esos casos devuelven domain.ErrConflict.

// ListUsers lista los usuarios de un tenant.
func (uc *TenantUseCase) ListUsers(ctx context.Context, tenantID string, limit, offset int) (*dto.UserListResponse, error) {
	t, err := uc.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	users, err := uc.repos.Users.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *dto.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.NewPageResponse(limit, offset, len(items))}, nil
}

// CreateUser agrega un usuario al tenant. domain.ErrEmailAlreadyExists si el email ya está
// registrado en ese tenant.
func (uc *TenantUseCase) CreateUser(ctx context.Context, tenantID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := validateUser(in.Name, in.Email, &in.Role); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: la contraseña es obligatoria", domain.ErrInvalidInput)
	}
	if err := uc.requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	existing, err := uc.repos.Users.GetByEmailAndTenant(ctx, email, tenantID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if in.Role == entity.RoleAdmin {
		if err := uc.requireNoAdmin(ctx, tenantID, ""); err != nil {
			return nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	saved, err := uc.store.SaveUser(ctx, &entity.User{
		TenantID:     tenantID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Document:     in.Document,
		Role:         in.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	return dto.ToUserResponse(saved), nil
}

// UpdateUser edita un usuario del tenant; con Password vacío conserva la contraseña.
// domain.ErrNotFound si el usuario no pertenece al tenant.
func (uc *TenantUseCase) UpdateUser(ctx context.Context, tenantID, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := validateUser(in.Name, in.Email, &in.Role); err != nil {
		return nil, err
	}
	u, err := uc.tenantUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	if !strings.EqualFold(email, u.Email) {
		other, err := uc.repos.Users.GetByEmailAndTenant(ctx, email, tenantID)
		if err != nil {
			return nil, fmt.Errorf("buscar usuario: %w", err)
		}
		if other != nil && other.ID != u.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	switch {
	case u.Role == entity.RoleAdmin && in.Role != entity.RoleAdmin:
		return nil, fmt.Errorf("%w: el tenant debe conservar su administrador", domain.ErrConflict)
	case u.Role != entity.RoleAdmin && in.Role == entity.RoleAdmin:
		if err := uc.requireNoAdmin(ctx, tenantID, u.ID); err != nil {
			return nil, err
		}
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Email = email
	u.Document = in.Document
	u.Role = in.Role
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash de contraseña: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	saved, err := uc.store.SaveUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("actualizar usuario: %w", err)
	}
	return dto.ToUserResponse(saved), nil
}

// DeleteUser elimina un usuario del tenant. El administrador no se puede eliminar.
func (uc *TenantUseCase) DeleteUser(ctx context.Context, tenantID, userID string) error {
	u, err := uc.tenantUser(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if u.Role == entity.RoleAdmin {
		return fmt.Errorf("%w: el administrador del tenant no se puede eliminar", domain.ErrConflict)
	}
	if err := uc.repos.Users.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	return nil
}

func (uc *TenantUseCase) requireTenant(ctx context.Context, tenantID string) error {
	t, err := uc.store.GetTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("buscar tenant: %w", err)
	}
	if t == nil {
		return domain.ErrNotFound
	}
	return nil
}

// tenantUser busca el usuario y verifica que pertenezca al tenant.
func (uc *TenantUseCase) tenantUser(ctx context.Context, tenantID, userID string) (*entity.User, error) {
	if err := uc.requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if !records.IsExistingID(userID) {
		return nil, domain.ErrNotFound
	}
	u, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if u == nil || u.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// requireNoAdmin falla con domain.ErrConflict si el tenant ya tiene un admin distinto de exceptID.
func (uc *TenantUseCase) requireNoAdmin(ctx context.Context, tenantID, exceptID string) error {
	admin, err := uc.store.AdminUser(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("buscar administrador: %w", err)
	}
	if admin != nil && admin.ID != exceptID {
		return fmt.Errorf("%w: el tenant ya tiene un administrador", domain.ErrConflict)
	}
	return nil
}

// validateUser valida nombre y email y completa el rol por defecto.
func validateUser(name, email string, role *string) error {
	if *role == "" {
		*role = entity.RoleOperator
	}
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	case !strings.Contains(email, "@"):
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	case *role != entity.RoleAdmin && *role != entity.RoleOperator:
		return fmt.Errorf("%w: rol %q no soportado", domain.ErrInvalidInput, *role)
	}
	return nil
}

// SummaryPDF genera el resumen imprimible del onboarding del tenant.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el tenant no existe.
func (uc *TenantUseCase) SummaryPDF(ctx context.Context, id string) ([]byte, string, error) {
	s, err := uc.collect(ctx, id)
	if err != nil {
		return nil, "", err
	}
	erp, err := uc.store.ERPConfiguration(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("configuración ERP: %w", err)
	}
	if erp != nil {
		if tpl, ok := uc.catalog.ERPTemplate(ctx, erp.TemplateID); ok {
			s.ERPTemplateName = tpl.Name
		}
	}
	pdf, err := uc.generator.GenerateTenantSummary(ctx, *s)
	if err != nil {
		return nil, "", fmt.Errorf("generar resumen: %w", err)
	}
	return pdf, fmt.Sprintf("onboarding-%s.pdf", s.Tenant.ID), nil
}

// collect carga lo necesario para el detalle y el resumen.
func (uc *TenantUseCase) collect(ctx context.Context, id string) (*TenantSummary, error) {
	t, err := uc.store.GetTenant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	s := &TenantSummary{Tenant: *t, GeneratedAt: uc.now()}

	if t.AddressID != nil {
		if s.Address, err = uc.store.GetAddress(ctx, *t.AddressID); err != nil {
			return nil, fmt.Errorf("dirección: %w", err)
		}
	}
	if s.Admin, err = uc.store.AdminUser(ctx, id); err != nil {
		return nil, fmt.Errorf("administrador: %w", err)
	}
	if s.Progress, err = uc.store.Progress(ctx, id); err != nil {
		return nil, fmt.Errorf("progreso: %w", err)
	}
	if s.Advanced, err = uc.store.AdvancedConfiguration(ctx, id); err != nil {
		return nil, fmt.Errorf("configuración avanzada: %w", err)
	}
	assistants, err := uc.store.Assistants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("asistentes: %w", err)
	}
	for _, a := range assistants {
		s.Assistants = append(s.Assistants, *a)
	}
	return s, nil
}

