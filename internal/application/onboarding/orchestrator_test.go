package onboarding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/records"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

func asStepError(t *testing.T, err error) *onboarding.StepError {
	t.Helper()
	var serr *onboarding.StepError
	require.True(t, errors.As(err, &serr), "se esperaba *StepError, se obtuvo %v", err)
	return serr
}

// ── Flujo completo ────────────────────────────────────────────────────────────

func TestCompleteStep_FlujoCompletoHastaDespliegue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()

	var visited []int
	for _, in := range []onboarding.StepInput{
		companyInput(), apiKeysInput(), erpInput(), assistantsInput("Atendente"), advancedInput(), {},
	} {
		st, err := h.orch.CompleteStep(ctx, s, in)
		require.NoError(t, err)
		visited = append(visited, st.CurrentStep)
	}

	assert.Equal(t, []int{2, 3, 4, 6, 7, 7}, visited)

	st := h.orch.State(s)
	assert.True(t, st.Completed)
	assert.Equal(t, "https://acme-co.pipeelo.com", st.DeploymentURL())
	require.NotNil(t, st.Form.Progress)
	assert.Equal(t, entity.OnboardingStatusDeployed, st.Form.Progress.Status)
	assert.Equal(t, 7, st.Form.Progress.CurrentStep)
	require.NotNil(t, st.Form.Progress.DeployedAt)
	assert.Equal(t, fixedNow, *st.Form.Progress.DeployedAt)

	client := h.clients.last()
	assert.Equal(t, []string{
		"create:asaas",
		"login:ana@acme.co",
		"permanent:session-token",
		"openai:sk-1",
		"openrouter:or-1",
	}, client.Calls())
	assert.Equal(t, "perm-token", client.Token())

	counts := h.db.Counts()
	assert.Equal(t, 1, counts["tenants"])
	assert.Equal(t, 1, counts["users"])
	assert.Equal(t, 1, counts["assistants"])
	assert.Equal(t, 1, counts["progress"])
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.TenantsDeployed))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.Steps.WithLabelValues("1", "ok")))
}

// ── Paso 1 ────────────────────────────────────────────────────────────────────

func TestStep1_PersisteTenantConTokenYAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()

	st, err := h.orch.CompleteStep(ctx, s, companyInput())
	require.NoError(t, err)

	assert.Equal(t, 2, st.CurrentStep)
	require.NotEmpty(t, st.TenantID)
	assert.True(t, records.IsExistingID(st.TenantID))

	store := records.New(h.db.Repositories())
	tenant, err := store.GetTenant(ctx, st.TenantID)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	require.True(t, tenant.HasToken())
	assert.Equal(t, "perm-token", *tenant.PipeeloToken)
	require.NotNil(t, tenant.AddressID)

	admin, err := store.AdminUser(ctx, st.TenantID)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "ana@acme.co", admin.Email)
	assert.NotEqual(t, "secreto123", admin.PasswordHash)

	progress, err := store.Progress(ctx, st.TenantID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 2, progress.CurrentStep)
	assert.Equal(t, entity.OnboardingStatusInProgress, progress.Status)
	assert.Equal(t, entity.OnboardingTotalSteps, progress.TotalSteps)
}

func TestStep1_UsaPermanentTokenDeLaCuentaSinLogin(t *testing.T) {
	h := newHarness(t, withClient(func(c *fakeClient) {
		c.account.PermanentToken = "perm-directo"
	}))
	s := h.orch.NewSession()

	_, err := h.orch.CompleteStep(context.Background(), s, companyInput())
	require.NoError(t, err)

	client := h.clients.last()
	assert.Equal(t, []string{"create:asaas"}, client.Calls())
	assert.Equal(t, "perm-directo", client.Token())
}

func TestStep1_FalloExternoAbortaSinPersistir(t *testing.T) {
	remoteErr := errors.New("Login failed: 401 Unauthorized - credenciales inválidas")
	h := newHarness(t, withClient(func(c *fakeClient) { c.loginErr = remoteErr }))
	s := h.orch.NewSession()

	st, err := h.orch.CompleteStep(context.Background(), s, companyInput())

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindExternal, serr.Kind)
	assert.Equal(t, remoteErr.Error(), serr.Message, "el mensaje remoto se muestra tal cual")
	assert.ErrorIs(t, err, remoteErr)
	assert.Equal(t, 1, st.CurrentStep)
	assert.False(t, st.Saving)
	assert.Equal(t, serr, st.Error)
	assert.Empty(t, st.TenantID)
	assert.NotEmpty(t, st.LogMessages)
	for table, n := range h.db.Counts() {
		assert.Zero(t, n, table)
	}
}

func TestStep1_FalloLocalRevierteTodaLaTransaccion(t *testing.T) {
	h := newHarness(t, withTx(func(inner repository.TxRunner) repository.TxRunner {
		return failingUsersTx{inner: inner}
	}))
	s := h.orch.NewSession()

	st, err := h.orch.CompleteStep(context.Background(), s, companyInput())

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindPersistence, serr.Kind)
	assert.Equal(t, 1, st.CurrentStep)
	assert.Empty(t, st.TenantID)
	for table, n := range h.db.Counts() {
		assert.Zero(t, n, table)
	}
}

func TestStep1_ReintentoConMismoDocumentoYEmailNoDuplica(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.orch.CompleteStep(ctx, h.orch.NewSession(), companyInput())
	require.NoError(t, err)
	second, err := h.orch.CompleteStep(ctx, h.orch.NewSession(), companyInput())
	require.NoError(t, err)

	assert.Equal(t, first.TenantID, second.TenantID)
	counts := h.db.Counts()
	assert.Equal(t, 1, counts["tenants"])
	assert.Equal(t, 1, counts["addresses"])
	assert.Equal(t, 1, counts["users"])
	assert.Equal(t, 1, counts["progress"])
}

func TestStep1_ValidacionNoLlamaAlServicio(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()
	in := companyInput()
	in.Company.Admin.Email = ""

	_, err := h.orch.CompleteStep(context.Background(), s, in)

	assert.Equal(t, onboarding.KindValidation, asStepError(t, err).Kind)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, h.clients.last().Calls())
}

// ── Pasos 2 a 6 ───────────────────────────────────────────────────────────────

func TestSteps_AvanzanYSonEstablesAlReanudar(t *testing.T) {
	cases := []struct {
		step int
		in   onboarding.StepInput
		next int
	}{
		{onboarding.StepAPIKeys, apiKeysInput(), 3},
		{onboarding.StepERP, erpInput(), 4},
		{onboarding.StepAssistants, assistantsInput("Atendente"), 6},
		{onboarding.StepAdvanced, advancedInput(), 7},
	}
	for _, tc := range cases {
		t.Run(onboarding.StepNames[tc.step], func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			s := h.orch.NewSession()
			h.completeThrough(t, s, tc.step)
			require.Equal(t, tc.step, h.orch.State(s).CurrentStep)

			st, err := h.orch.CompleteStep(ctx, s, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.next, st.CurrentStep)

			resumed, err := h.orch.Resume(ctx, st.TenantID)
			require.NoError(t, err)
			assert.Equal(t, tc.next, h.orch.State(resumed).CurrentStep)
		})
	}
}

func TestStep5_ActivoSeRecorre(t *testing.T) {
	h := newHarness(t, withSteps(1, 2, 3, 4, 5, 6, 7))
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAssistants)

	st, err := h.orch.CompleteStep(context.Background(), s, assistantsInput("Atendente"))
	require.NoError(t, err)
	assert.Equal(t, 5, st.CurrentStep)

	st, err = h.orch.CompleteStep(context.Background(), s, onboarding.StepInput{})
	require.NoError(t, err)
	assert.Equal(t, 6, st.CurrentStep)
}

func TestStep2_SinTokenGuardaYNoEnvia(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	store := records.New(h.db.Repositories())
	tenant, err := store.SaveTenant(ctx, &entity.Tenant{Name: "Sin Token", Document: "999"}, "")
	require.NoError(t, err)
	_, err = store.SaveProgress(ctx, &entity.OnboardingProgress{
		TenantID: tenant.ID, Status: entity.OnboardingStatusInProgress, CurrentStep: 2,
	})
	require.NoError(t, err)

	s, err := h.orch.Resume(ctx, tenant.ID)
	require.NoError(t, err)
	st, err := h.orch.CompleteStep(ctx, s, apiKeysInput())

	require.NoError(t, err)
	assert.Equal(t, 3, st.CurrentStep)
	assert.Nil(t, st.Error)
	assert.Empty(t, h.clients.last().Calls(), "sin token no hay llamadas externas")
	cfg, err := store.APIConfiguration(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "sk-1", cfg.OpenAIKey)
}

func TestStep2_FalloDeEnvioNoRevierteNiDetiene(t *testing.T) {
	pushErr := errors.New("Update OpenAI failed: 500 Internal Server Error - boom")
	h := newHarness(t, withClient(func(c *fakeClient) { c.openAIErr = pushErr }))
	ctx := context.Background()
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAPIKeys)

	st, err := h.orch.CompleteStep(ctx, s, apiKeysInput())

	require.NoError(t, err)
	assert.Equal(t, 3, st.CurrentStep, "el paso avanza aunque el envío falle")
	require.NotNil(t, st.Error)
	assert.Equal(t, onboarding.KindExternal, st.Error.Kind)
	assert.Contains(t, st.Error.Message, pushErr.Error())
	assert.Contains(t, h.clients.last().Calls(), "openrouter:or-1", "un fallo no detiene los demás envíos")

	cfg, err := records.New(h.db.Repositories()).APIConfiguration(ctx, st.TenantID)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "or-1", cfg.OpenRouterKey)

	h.orch.DismissError(s)
	assert.Nil(t, h.orch.State(s).Error)
}

func TestStep3_PlantillaInexistenteEsConstraint(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepERP)

	st, err := h.orch.CompleteStep(context.Background(), s, onboarding.StepInput{
		ERP: &onboarding.ERPInput{TemplateID: missingERPTplID},
	})

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindConstraint, serr.Kind)
	assert.Equal(t, "la plantilla ERP seleccionada no existe", serr.Message)
	assert.Equal(t, 3, st.CurrentStep)
	assert.Zero(t, h.db.Counts()["erp"])
}

func TestStep3_CampoObligatorioDeLaPlantilla(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepERP)

	_, err := h.orch.CompleteStep(context.Background(), s, onboarding.StepInput{
		ERP: &onboarding.ERPInput{TemplateID: erpBlingID, Fields: map[string]string{"client_id": "x"}},
	})

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindValidation, serr.Kind)
	assert.Contains(t, serr.Message, "client_secret")
}

func TestStep4_SegundoAsistenteFallaYDetieneAlTercero(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAssistants)

	in := onboarding.StepInput{Assistants: []onboarding.AssistantInput{
		{Name: "Primero", Prompt: "Olá"},
		{Name: "Segundo", PromptTemplateID: missingPromptID},
		{Name: "Tercero", Prompt: "Olá"},
	}}
	st, err := h.orch.CompleteStep(ctx, s, in)

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindConstraint, serr.Kind)
	assert.Contains(t, serr.Message, `"Segundo"`)
	assert.Contains(t, serr.Message, "la plantilla de prompt seleccionada no existe")
	assert.Equal(t, 4, st.CurrentStep)

	saved, err := records.New(h.db.Repositories()).Assistants(ctx, st.TenantID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Primero", saved[0].Name)
	require.Len(t, st.Form.Assistants, 1, "lo guardado queda en el formulario")
}

func TestStep4_PromptDesdePlantilla(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAssistants)

	st, err := h.orch.CompleteStep(context.Background(), s, onboarding.StepInput{
		Assistants: []onboarding.AssistantInput{{Name: "Atendente", PromptTemplateID: promptAtendeID}},
	})

	require.NoError(t, err)
	require.Len(t, st.Form.Assistants, 1)
	a := st.Form.Assistants[0]
	assert.Contains(t, a.Prompt, "Acme Co")
	assert.Contains(t, a.Prompt, "varejo")
	assert.Equal(t, onboarding.DefaultAssistantModel, a.Model)
	assert.True(t, a.Temperature.Equal(onboarding.DefaultAssistantTemperature))
	assert.True(t, a.Enabled)
}

// ── Navegación y reanudación ──────────────────────────────────────────────────

func TestBack_NoReescribeElProgreso(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAdvanced)
	tenantID := h.orch.State(s).TenantID

	require.NoError(t, h.orch.Back(s))
	assert.Equal(t, 4, h.orch.State(s).CurrentStep)
	require.NoError(t, h.orch.Back(s))
	assert.Equal(t, 3, h.orch.State(s).CurrentStep)

	resumed, err := h.orch.Resume(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 6, h.orch.State(resumed).CurrentStep)

	progress, err := records.New(h.db.Repositories()).Progress(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 6, progress.CurrentStep)
}

func TestBack_EnElPrimerPasoSeQueda(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()

	require.NoError(t, h.orch.Back(s))
	assert.Equal(t, 1, h.orch.State(s).CurrentStep)
}

func TestResume_CargaTodoEInstalaToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAdvanced)
	tenantID := h.orch.State(s).TenantID

	resumed, err := h.orch.Resume(ctx, tenantID)
	require.NoError(t, err)

	st := h.orch.State(resumed)
	assert.NotEqual(t, s.ID, resumed.ID)
	assert.Equal(t, tenantID, st.TenantID)
	assert.Equal(t, "Acme Co", st.Form.Tenant.Name)
	assert.Equal(t, "Rua das Flores", st.Form.Address.Street)
	assert.Equal(t, "ana@acme.co", st.Form.Admin.Email)
	assert.Equal(t, "sk-1", st.Form.APIConfig.OpenAIKey)
	assert.Equal(t, erpTinyID, st.Form.ERPConfig.TemplateID)
	assert.Len(t, st.Form.Assistants, 1)
	assert.Equal(t, "perm-token", h.clients.last().Token())
	assert.Empty(t, h.clients.last().Calls(), "reanudar no repite el intercambio de tokens")
}

func TestResume_TenantInexistente(t *testing.T) {
	h := newHarness(t)

	_, err := h.orch.Resume(context.Background(), "6f1c2a9e-8d3b-4c5a-9e7f-1a2b3c4d5e6f")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.orch.Resume(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResume_SinProgresoEmpiezaEnPaso1(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	tenant, err := records.New(h.db.Repositories()).SaveTenant(ctx, &entity.Tenant{Name: "Nuevo", Document: "1"}, "")
	require.NoError(t, err)

	s, err := h.orch.Resume(ctx, tenant.ID)
	require.NoError(t, err)

	st := h.orch.State(s)
	assert.Equal(t, 1, st.CurrentStep)
	assert.Nil(t, st.Form.Progress)
	assert.Empty(t, h.clients.last().Token())
}

func TestStep1_EnSesionReanudadaNoRecreaLaCuentaRemota(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAPIKeys)
	tenantID := h.orch.State(s).TenantID

	resumed, err := h.orch.Resume(ctx, tenantID)
	require.NoError(t, err)
	require.NoError(t, h.orch.Back(resumed))
	in := companyInput()
	in.Company.Phone = "+55 11 0000-0000"

	st, err := h.orch.CompleteStep(ctx, resumed, in)

	require.NoError(t, err)
	assert.Equal(t, tenantID, st.TenantID)
	assert.Equal(t, "+55 11 0000-0000", st.Form.Tenant.Phone)
	assert.Empty(t, h.clients.last().Calls())
	assert.Equal(t, 1, h.db.Counts()["tenants"])
}

func TestReload_SinTenantEsPrecondicion(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()

	err := h.orch.Reload(context.Background(), s)

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindPrecondition, serr.Kind)
	assert.ErrorIs(t, err, domain.ErrTenantRequired)
	assert.False(t, h.orch.State(s).Saving)
}

func TestReload_RecuperaCambiosDelStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.orch.NewSession()
	h.completeThrough(t, s, onboarding.StepAPIKeys)
	tenantID := h.orch.State(s).TenantID

	store := records.New(h.db.Repositories())
	tenant, err := store.GetTenant(ctx, tenantID)
	require.NoError(t, err)
	tenant.Name = "Acme Renombrada"
	_, err = store.SaveTenant(ctx, tenant, "")
	require.NoError(t, err)

	require.NoError(t, h.orch.Reload(ctx, s))
	assert.Equal(t, "Acme Renombrada", h.orch.State(s).Form.Tenant.Name)
}

// ── Sesiones ──────────────────────────────────────────────────────────────────

func TestCompleteStep_SegundaLlamadaConcurrenteEsBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, withClient(func(c *fakeClient) {
		c.onCreate = func(context.Context) {
			close(started)
			<-release
		}
	}))
	ctx := context.Background()
	s := h.orch.NewSession()

	done := make(chan error, 1)
	go func() {
		_, err := h.orch.CompleteStep(ctx, s, companyInput())
		done <- err
	}()
	<-started

	assert.True(t, h.orch.State(s).Saving)
	_, err := h.orch.CompleteStep(ctx, s, companyInput())
	assert.Equal(t, onboarding.KindBusy, asStepError(t, err).Kind)
	assert.Equal(t, onboarding.KindBusy, asStepError(t, h.orch.Back(s)).Kind)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("el primer paso no terminó")
	}
	st := h.orch.State(s)
	assert.False(t, st.Saving)
	assert.Equal(t, 2, st.CurrentStep)
}

func TestSessions_ClientesYTokensIndependientes(t *testing.T) {
	tokens := []string{"perm-a", "perm-b"}
	n := 0
	h := newHarness(t, withClient(func(c *fakeClient) {
		c.permanent = tokens[n%2]
		n++
	}))
	ctx := context.Background()

	a := h.orch.NewSession()
	b := h.orch.NewSession()
	_, err := h.orch.CompleteStep(ctx, a, companyInput())
	require.NoError(t, err)
	other := companyInput()
	other.Company.Document = "98.765.432/0001-10"
	other.Company.Admin.Email = "bia@outra.co"
	_, err = h.orch.CompleteStep(ctx, b, other)
	require.NoError(t, err)

	assert.Equal(t, "perm-a", h.clients.clients[0].Token())
	assert.Equal(t, "perm-b", h.clients.clients[1].Token())
	assert.NotEqual(t, h.orch.State(a).TenantID, h.orch.State(b).TenantID)
}

func TestSessions_RegistroYCierre(t *testing.T) {
	h := newHarness(t)
	s := h.orch.NewSession()

	got, ok := h.orch.Session(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.ActiveSessions))

	assert.True(t, h.orch.CloseSession(s.ID))
	assert.False(t, h.orch.CloseSession(s.ID))
	_, ok = h.orch.Session(s.ID)
	assert.False(t, ok)
}

func TestSessions_Expiran(t *testing.T) {
	h := newHarness(t)
	h.orch.NewSession()

	assert.Equal(t, 0, h.orch.ExpireSessions(time.Hour))
	assert.Equal(t, 1, h.orch.ExpireSessions(-time.Minute))
}

func TestStep1_ReintentoTrasFalloLocalNoRecreaLaCuentaRemota(t *testing.T) {
	h := newHarness(t, withTx(func(inner repository.TxRunner) repository.TxRunner {
		return &failOnceTx{inner: inner}
	}))
	ctx := context.Background()
	s := h.orch.NewSession()

	_, err := h.orch.CompleteStep(ctx, s, companyInput())
	require.Error(t, err)
	st, err := h.orch.CompleteStep(ctx, s, companyInput())
	require.NoError(t, err)

	assert.Equal(t, 2, st.CurrentStep)
	assert.Equal(t, []string{"create:asaas", "login:ana@acme.co", "permanent:session-token"}, h.clients.last().Calls())
	tenant, err := records.New(h.db.Repositories()).GetTenant(ctx, st.TenantID)
	require.NoError(t, err)
	require.True(t, tenant.HasToken())
	assert.Equal(t, "perm-token", *tenant.PipeeloToken)
	assert.Equal(t, 1, h.db.Counts()["tenants"])
}

func TestStep1_ReintentoConDocumentoSinFormatoNoDuplica(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.orch.CompleteStep(ctx, h.orch.NewSession(), companyInput())
	require.NoError(t, err)
	retry := companyInput()
	retry.Company.Document = "12345678000190"
	second, err := h.orch.CompleteStep(ctx, h.orch.NewSession(), retry)
	require.NoError(t, err)

	assert.Equal(t, first.TenantID, second.TenantID)
	assert.Equal(t, 1, h.db.Counts()["tenants"])
	assert.Equal(t, "12345678000190", second.Form.Tenant.Document)
}

func TestStep1_DocumentoSinDigitosEsValidacion(t *testing.T) {
	h := newHarness(t)
	in := companyInput()
	in.Company.Document = "./-"

	_, err := h.orch.CompleteStep(context.Background(), h.orch.NewSession(), in)

	assert.Equal(t, onboarding.KindValidation, asStepError(t, err).Kind)
	assert.Empty(t, h.clients.last().Calls())
}

func TestStep4_AsistenteDeOtroTenantNoSeReasigna(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	store := records.New(h.db.Repositories())

	owner := h.orch.NewSession()
	h.completeThrough(t, owner, onboarding.StepAdvanced)
	ownerTenant := h.orch.State(owner).TenantID
	before, err := store.Assistants(ctx, ownerTenant)
	require.NoError(t, err)
	require.Len(t, before, 1)

	intruder := h.orch.NewSession()
	other := companyInput()
	other.Company.Document = "98.765.432/0001-10"
	other.Company.Admin.Email = "bia@outra.co"
	_, err = h.orch.CompleteStep(ctx, intruder, other)
	require.NoError(t, err)
	h.completeThrough(t, intruder, onboarding.StepAssistants)

	st, err := h.orch.CompleteStep(ctx, intruder, onboarding.StepInput{Assistants: []onboarding.AssistantInput{
		{ID: before[0].ID, Name: "Ajeno", Prompt: "Olá"},
	}})

	serr := asStepError(t, err)
	assert.Equal(t, onboarding.KindValidation, serr.Kind)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, onboarding.StepAssistants, st.CurrentStep)
	after, err := store.Assistants(ctx, ownerTenant)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Name, after[0].Name)
	assert.Equal(t, ownerTenant, after[0].TenantID)
	mine, err := store.Assistants(ctx, st.TenantID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestSessions_ExpiranPorInactividad(t *testing.T) {
	h := newHarness(t)
	clock := fixedNow
	h.orch.WithClock(func() time.Time { return clock })
	s := h.orch.NewSession()

	clock = fixedNow.Add(90 * time.Minute)
	_, err := h.orch.CompleteStep(context.Background(), s, companyInput())
	require.NoError(t, err)
	assert.Equal(t, clock, s.LastActivity())

	clock = fixedNow.Add(150 * time.Minute)
	assert.Equal(t, 0, h.orch.ExpireSessions(120*time.Minute), "la sesión estuvo activa hace 60 minutos")
	assert.Equal(t, 1, h.orch.ExpireSessions(30*time.Minute))
	_, ok := h.orch.Session(s.ID)
	assert.False(t, ok)
}
