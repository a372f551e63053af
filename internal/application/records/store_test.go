package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/records"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*records.Store, *memory.DB) {
	t.Helper()
	erp, prompts, err := memory.SeedTemplates()
	require.NoError(t, err)
	db := memory.NewDB(erp, prompts)
	return records.New(db.Repositories()).WithClock(func() time.Time { return now }), db
}

func TestIsExistingID(t *testing.T) {
	assert.True(t, records.IsExistingID("6f1c2a9e-8d3b-4c5a-9e7f-1a2b3c4d5e6f"))
	assert.False(t, records.IsExistingID(""))
	assert.False(t, records.IsExistingID("tmp-1"))
	assert.False(t, records.IsExistingID("42"))
}

func TestSaveTenant_IDInvalidoInsertaConUUIDNuevo(t *testing.T) {
	s, _ := newStore(t)

	saved, err := s.SaveTenant(context.Background(), &entity.Tenant{ID: "tmp-1", Name: "Acme", Document: "1"}, "")

	require.NoError(t, err)
	assert.NotEqual(t, "tmp-1", saved.ID)
	assert.True(t, records.IsExistingID(saved.ID))
	assert.Equal(t, now, saved.CreatedAt)
}

func TestSaveTenant_CoalesceaPorDocumentoYEmailDelAdmin(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	first, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "123"}, "ana@acme.co")
	require.NoError(t, err)
	_, err = s.SaveUser(ctx, &entity.User{TenantID: first.ID, Email: "ana@acme.co", Role: entity.RoleAdmin})
	require.NoError(t, err)

	second, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme Ltda", Document: "123"}, "ANA@acme.co")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, db.Counts()["tenants"])
	got, err := s.GetTenant(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", got.Name)
}

func TestSaveTenant_ConservaTokenExistente(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	t1, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)
	_, err = s.SetTenantToken(ctx, t1.ID, "perm")
	require.NoError(t, err)

	t1.PipeeloToken = nil
	t1.Name = "Acme 2"
	updated, err := s.SaveTenant(ctx, t1, "")

	require.NoError(t, err)
	require.True(t, updated.HasToken())
	assert.Equal(t, "perm", *updated.PipeeloToken)
}

func TestSetTenantToken_TenantInexistente(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.SetTenantToken(context.Background(), "6f1c2a9e-8d3b-4c5a-9e7f-1a2b3c4d5e6f", "x")
	assert.Error(t, err)
}

func TestGet_AusenteDevuelveNilSinError(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	tenant, err := s.GetTenant(ctx, "6f1c2a9e-8d3b-4c5a-9e7f-1a2b3c4d5e6f")
	assert.NoError(t, err)
	assert.Nil(t, tenant)

	addr, err := s.GetAddress(ctx, "no-uuid")
	assert.NoError(t, err)
	assert.Nil(t, addr)

	p, err := s.Progress(ctx, "6f1c2a9e-8d3b-4c5a-9e7f-1a2b3c4d5e6f")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestSaveUser_CoalesceaPorTenantYEmail(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	tenant, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)

	u1, err := s.SaveUser(ctx, &entity.User{TenantID: tenant.ID, Email: "ana@acme.co", Name: "Ana", Role: entity.RoleAdmin})
	require.NoError(t, err)
	u2, err := s.SaveUser(ctx, &entity.User{TenantID: tenant.ID, Email: "ana@acme.co", Name: "Ana Maria", Role: entity.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, 1, db.Counts()["users"])
	admin, err := s.AdminUser(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", admin.Name)
}

func TestSaveUser_TenantInexistenteEsConstraint(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.SaveUser(context.Background(), &entity.User{TenantID: "6f1c2a9e-8d3b-4c5a-9e7f-1a2b3c4d5e6f", Email: "a@b.c"})

	ce, ok := domain.AsConstraintError(err)
	require.True(t, ok)
	assert.Equal(t, domain.FieldTenantID, ce.Field)
}

func TestConfiguraciones_UnaPorTenant(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	tenant, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)

	a1, err := s.SaveAPIConfiguration(ctx, &entity.APIConfiguration{TenantID: tenant.ID, OpenAIKey: "k1"})
	require.NoError(t, err)
	a2, err := s.SaveAPIConfiguration(ctx, &entity.APIConfiguration{TenantID: tenant.ID, OpenAIKey: "k2"})
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)

	_, err = s.SaveAdvancedConfiguration(ctx, &entity.AdvancedConfiguration{TenantID: tenant.ID, Timezone: "UTC"})
	require.NoError(t, err)
	_, err = s.SaveAdvancedConfiguration(ctx, &entity.AdvancedConfiguration{TenantID: tenant.ID, Timezone: "America/Sao_Paulo"})
	require.NoError(t, err)

	counts := db.Counts()
	assert.Equal(t, 1, counts["api"])
	assert.Equal(t, 1, counts["advanced"])
	got, err := s.APIConfiguration(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "k2", got.OpenAIKey)
}

func TestSaveERPConfiguration_PlantillaInexistente(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	tenant, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)

	_, err = s.SaveERPConfiguration(ctx, &entity.ERPConfiguration{TenantID: tenant.ID, TemplateID: "00000000-0000-4000-8000-000000000009"})

	ce, ok := domain.AsConstraintError(err)
	require.True(t, ok)
	assert.Equal(t, domain.FieldERPTemplateID, ce.Field)
}

func TestSaveAssistant_ListaPorTenant(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	tenant, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)

	saved, err := s.SaveAssistant(ctx, &entity.Assistant{TenantID: tenant.ID, Name: "A", Temperature: decimal.RequireFromString("0.5")})
	require.NoError(t, err)
	saved.Name = "A2"
	_, err = s.SaveAssistant(ctx, saved)
	require.NoError(t, err)

	list, err := s.Assistants(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A2", list[0].Name)
	assert.True(t, list[0].Temperature.Equal(decimal.RequireFromString("0.5")))
}

func TestSaveProgress_DefaultTotalSteps(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	tenant, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)

	p, err := s.SaveProgress(ctx, &entity.OnboardingProgress{TenantID: tenant.ID, Status: entity.OnboardingStatusInProgress, CurrentStep: 2})
	require.NoError(t, err)

	assert.Equal(t, entity.OnboardingTotalSteps, p.TotalSteps)
	again, err := s.SaveProgress(ctx, &entity.OnboardingProgress{TenantID: tenant.ID, Status: entity.OnboardingStatusInProgress, CurrentStep: 3})
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestSaveAssistant_IDDeOtroTenantEsNotFound(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	owner, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)
	intruder, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Otra", Document: "2"}, "")
	require.NoError(t, err)
	saved, err := s.SaveAssistant(ctx, &entity.Assistant{TenantID: owner.ID, Name: "Atendente"})
	require.NoError(t, err)

	_, err = s.SaveAssistant(ctx, &entity.Assistant{ID: saved.ID, TenantID: intruder.ID, Name: "Ajeno"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	list, err := s.Assistants(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Atendente", list[0].Name)
	none, err := s.Assistants(ctx, intruder.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveUser_IDDeOtroTenantEsNotFound(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	owner, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "1"}, "")
	require.NoError(t, err)
	intruder, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Otra", Document: "2"}, "")
	require.NoError(t, err)
	u, err := s.SaveUser(ctx, &entity.User{TenantID: owner.ID, Email: "ana@acme.co", Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = s.SaveUser(ctx, &entity.User{ID: u.ID, TenantID: intruder.ID, Email: "x@otra.co", Role: entity.RoleAdmin})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveTenant_DocumentoSoloDigitosYCoalescenciaConOtroFormato(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	first, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "12.345.678/0001-90"}, "ana@acme.co")
	require.NoError(t, err)
	assert.Equal(t, "12345678000190", first.Document)
	_, err = s.SaveUser(ctx, &entity.User{TenantID: first.ID, Email: "ana@acme.co", Role: entity.RoleAdmin})
	require.NoError(t, err)

	second, err := s.SaveTenant(ctx, &entity.Tenant{Name: "Acme", Document: "12345678000190"}, "ana@acme.co")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, db.Counts()["tenants"])
	found, err := s.TenantByNaturalKey(ctx, "12 345 678 0001 90", "ana@acme.co")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}
