package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/application/records"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/queue"
)

// DefaultAssistantModel modelo de un asistente sin modelo explícito.
const DefaultAssistantModel = "gpt-4o-mini"

// DefaultAssistantTemperature temperatura de un asistente sin valor explícito.
var DefaultAssistantTemperature = decimal.RequireFromString("0.7")

// ── Paso 1: empresa ───────────────────────────────────────────────────────────

// completeCompany crea la cuenta remota, obtiene el token permanente y lo instala en el cliente
// de la sesión; después guarda dirección, tenant, administrador y progreso en una transacción.
// Cualquier fallo aborta el paso sin dejar registros locales.
func (o *Orchestrator) completeCompany(ctx context.Context, run *stepRun) *StepError {
	in := run.in.Company
	if msg := in.validate(); msg != "" {
		return stepErr(StepCompany, KindValidation, msg, domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return stepErr(StepCompany, KindValidation, "contraseña del administrador inválida", err)
	}

	token, serr := o.provisionAccount(ctx, run, in)
	if serr != nil {
		return serr
	}

	var (
		tenant   *entity.Tenant
		address  *entity.Address
		admin    *entity.User
		progress *entity.OnboardingProgress
	)
	err = o.tx.Run(ctx, func(repos repository.Repositories) error {
		st := o.store(repos)

		addr := addressFrom(in.Address)
		addr.ID = run.form.Address.ID
		if addr.ID == "" {
			// Reintento desde una sesión nueva: reutilizar la dirección del tenant coalescido.
			prev, err := st.TenantByNaturalKey(ctx, in.Document, in.Admin.Email)
			if err != nil {
				return fmt.Errorf("buscar tenant: %w", err)
			}
			if prev != nil && prev.AddressID != nil {
				addr.ID = *prev.AddressID
			}
		}
		if address, err = st.SaveAddress(ctx, &addr); err != nil {
			return fmt.Errorf("guardar dirección: %w", err)
		}

		t := tenantFrom(in)
		t.ID = run.form.Tenant.ID
		t.AddressID = &address.ID
		if tenant, err = st.SaveTenant(ctx, &t, in.Admin.Email); err != nil {
			return fmt.Errorf("guardar tenant: %w", err)
		}
		if tenant, err = st.SetTenantToken(ctx, tenant.ID, token); err != nil {
			return fmt.Errorf("guardar token del tenant: %w", err)
		}

		u := entity.User{
			ID:           run.form.Admin.ID,
			TenantID:     tenant.ID,
			Name:         in.Admin.Name,
			Email:        in.Admin.Email,
			PasswordHash: string(hash),
			Document:     in.Admin.Document,
			Role:         entity.RoleAdmin,
		}
		if admin, err = st.SaveUser(ctx, &u); err != nil {
			return fmt.Errorf("guardar administrador: %w", err)
		}

		progress, err = o.advanceProgress(ctx, st, tenant.ID, StepCompany)
		return err
	})
	if err != nil {
		run.logf("No se pudieron guardar los datos de la empresa: %v", err)
		return persistenceErr(StepCompany, "", err)
	}

	run.tenantID = tenant.ID
	run.form.Tenant = *tenant
	run.form.Address = *address
	run.form.Admin = *admin
	run.form.Progress = progress
	run.next = progress.CurrentStep
	run.logf("Empresa %s guardada", tenant.Name)
	return nil
}

// provisionAccount obtiene el token permanente del tenant: si la cuenta remota devuelve uno lo
// usa; si no, hace login con el administrador e intercambia el token de sesión. Un tenant ya
// aprovisionado (sesión reanudada con token, o token instalado por un intento anterior de la
// misma sesión) no vuelve a crear la cuenta remota.
func (o *Orchestrator) provisionAccount(ctx context.Context, run *stepRun, in *CompanyInput) (string, *StepError) {
	client := run.session.client
	if run.tenantID != "" && run.form.Tenant.HasToken() {
		run.logf("La cuenta remota ya existe; se actualizan los datos locales")
		client.SetToken(*run.form.Tenant.PipeeloToken)
		return *run.form.Tenant.PipeeloToken, nil
	}
	if token := client.Token(); run.tenantID == "" && token != "" {
		// La cuenta se creó en un intento anterior de esta sesión pero el guardado local falló.
		run.logf("La cuenta remota ya fue creada en esta sesión; se reintenta el guardado local")
		return token, nil
	}

	run.logf("Creando la cuenta remota de %s", in.Name)
	account, err := client.CreateTenantAccount(ctx, tenantDraft(in), userDraft(in.Admin), o.cfg.Gateway)
	if err != nil {
		run.logf("Error al crear la cuenta remota: %v", err)
		return "", stepErr(StepCompany, KindExternal, err.Error(), err)
	}

	token := account.PermanentToken
	if token == "" {
		run.logf("Autenticando al administrador %s", in.Admin.Email)
		session, err := client.Login(ctx, in.Admin.Email, in.Admin.Password)
		if err != nil {
			run.logf("Error en el login: %v", err)
			return "", stepErr(StepCompany, KindExternal, err.Error(), err)
		}
		run.logf("Obteniendo token permanente")
		permanent, err := client.GetPermanentToken(ctx, session.Token)
		if err != nil {
			run.logf("Error al obtener el token permanente: %v", err)
			return "", stepErr(StepCompany, KindExternal, err.Error(), err)
		}
		token = permanent.Token
	}
	if token == "" {
		err := errors.New("el servicio de aprovisionamiento no devolvió un token permanente")
		return "", stepErr(StepCompany, KindExternal, err.Error(), err)
	}

	client.SetToken(token)
	run.logf("Token permanente instalado")
	return token, nil
}

func tenantDraft(in *CompanyInput) ports.TenantDraft {
	return ports.TenantDraft{
		Name:         in.Name,
		Document:     in.Document,
		Phone:        in.Phone,
		Email:        in.Email,
		Website:      in.Website,
		Sector:       in.Sector,
		Street:       in.Address.Street,
		Number:       in.Address.Number,
		Neighborhood: in.Address.Neighborhood,
		City:         in.Address.City,
		State:        in.Address.State,
		Country:      in.Address.Country,
		PostalCode:   in.Address.PostalCode,
	}
}

func userDraft(in AdminInput) ports.UserDraft {
	return ports.UserDraft{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Document: in.Document,
		Phone:    in.Phone,
	}
}

func tenantFrom(in *CompanyInput) entity.Tenant {
	return entity.Tenant{
		Name:     in.Name,
		Document: in.Document,
		Phone:    in.Phone,
		Email:    in.Email,
		Website:  in.Website,
		Sector:   in.Sector,
	}
}

func addressFrom(in AddressInput) entity.Address {
	return entity.Address{
		Street:       in.Street,
		Number:       in.Number,
		Neighborhood: in.Neighborhood,
		Country:      in.Country,
		State:        in.State,
		City:         in.City,
		Complement:   in.Complement,
		PostalCode:   in.PostalCode,
	}
}

// ── Paso 2: llaves de API ─────────────────────────────────────────────────────

// completeAPIKeys guarda las llaves y después las envía al servicio remoto si hay token.
// Un fallo del envío queda como error visible pero no revierte lo guardado ni detiene el paso.
func (o *Orchestrator) completeAPIKeys(ctx context.Context, run *stepRun) *StepError {
	if serr := requireTenant(run); serr != nil {
		return serr
	}
	keys := APIKeysInput{}
	if run.in.APIKeys != nil {
		keys = *run.in.APIKeys
	}

	st := o.store(o.repos)
	cfg := entity.APIConfiguration{
		ID:            run.form.APIConfig.ID,
		TenantID:      run.tenantID,
		OpenAIKey:     keys.OpenAIKey,
		OpenRouterKey: keys.OpenRouterKey,
	}
	saved, err := st.SaveAPIConfiguration(ctx, &cfg)
	if err != nil {
		return persistenceErr(StepAPIKeys, "", err)
	}
	run.form.APIConfig = *saved
	run.logf("Llaves de API guardadas")

	o.pushKeys(ctx, run, keys)

	return o.advance(ctx, st, run)
}

func (o *Orchestrator) pushKeys(ctx context.Context, run *stepRun, keys APIKeysInput) {
	client := run.session.client
	if client.Token() == "" {
		run.logf("Sin token de aprovisionamiento: las llaves no se enviaron al servicio remoto")
		return
	}
	if keys.OpenAIKey != "" {
		client.Enqueue("OpenAI", func(ctx context.Context) error { return client.UpdateOpenAI(ctx, keys.OpenAIKey) })
	}
	if keys.OpenRouterKey != "" {
		client.Enqueue("OpenRouter", func(ctx context.Context) error { return client.UpdateOpenRouter(ctx, keys.OpenRouterKey) })
	}

	results := client.ExecuteQueue(ctx)
	failed := queue.Failed(results)
	for _, r := range results {
		if r.OK() {
			run.logf("Llave %s enviada", r.Name)
		}
	}
	if len(failed) == 0 {
		return
	}
	msgs := make([]string, 0, len(failed))
	for _, r := range failed {
		run.logf("No se pudo enviar la llave %s: %v", r.Name, r.Err)
		msgs = append(msgs, r.Err.Error())
	}
	run.warning = stepErr(StepAPIKeys, KindExternal,
		"las llaves se guardaron pero no se pudieron enviar: "+strings.Join(msgs, "; "), failed[0].Err)
}

// ── Paso 3: ERP ───────────────────────────────────────────────────────────────

func (o *Orchestrator) completeERP(ctx context.Context, run *stepRun) *StepError {
	if serr := requireTenant(run); serr != nil {
		return serr
	}
	in := run.in.ERP
	if msg := in.validate(); msg != "" {
		return stepErr(StepERP, KindValidation, msg, domain.ErrInvalidInput)
	}
	if tpl, ok := o.catalog.ERPTemplate(ctx, in.TemplateID); ok {
		for _, f := range tpl.Fields {
			if f.Required && in.Fields[f.Name] == "" {
				return stepErr(StepERP, KindValidation,
					fmt.Sprintf("el campo %s es obligatorio para %s", f.Name, tpl.Name), domain.ErrInvalidInput)
			}
		}
	}

	st := o.store(o.repos)
	cfg := entity.ERPConfiguration{
		ID:         run.form.ERPConfig.ID,
		TenantID:   run.tenantID,
		TemplateID: in.TemplateID,
		Fields:     in.Fields,
	}
	saved, err := st.SaveERPConfiguration(ctx, &cfg)
	if err != nil {
		return persistenceErr(StepERP, "", err)
	}
	run.form.ERPConfig = *saved
	run.logf("Integración ERP guardada")

	return o.advance(ctx, st, run)
}

// ── Paso 4: asistentes ────────────────────────────────────────────────────────

// completeAssistants guarda los asistentes en orden. El primer fallo detiene los siguientes;
// los ya guardados permanecen y el error nombra al asistente que falló.
func (o *Orchestrator) completeAssistants(ctx context.Context, run *stepRun) *StepError {
	if serr := requireTenant(run); serr != nil {
		return serr
	}
	for i, a := range run.in.Assistants {
		if msg := a.validate(); msg != "" {
			return stepErr(StepAssistants, KindValidation, fmt.Sprintf("asistente %d: %s", i+1, msg), domain.ErrInvalidInput)
		}
	}

	st := o.store(o.repos)
	for _, in := range run.in.Assistants {
		a := o.assistantFrom(ctx, run, in)
		saved, err := st.SaveAssistant(ctx, &a)
		if err != nil {
			run.logf("No se pudo guardar el asistente %s: %v", in.Name, err)
			return persistenceErr(StepAssistants, fmt.Sprintf("asistente %q", in.Name), err)
		}
		run.form.Assistants = upsertAssistant(run.form.Assistants, *saved)
		run.logf("Asistente %s guardado", saved.Name)
	}
	if len(run.in.Assistants) == 0 {
		run.logf("Sin asistentes nuevos")
	}

	return o.advance(ctx, st, run)
}

func (o *Orchestrator) assistantFrom(ctx context.Context, run *stepRun, in AssistantInput) entity.Assistant {
	a := entity.Assistant{
		ID:          in.ID,
		TenantID:    run.tenantID,
		Name:        in.Name,
		Prompt:      in.Prompt,
		Model:       in.Model,
		Temperature: DefaultAssistantTemperature,
		Enabled:     true,
	}
	if a.Model == "" {
		a.Model = DefaultAssistantModel
	}
	if in.Temperature != nil {
		a.Temperature = *in.Temperature
	}
	if in.Enabled != nil {
		a.Enabled = *in.Enabled
	}
	if in.PromptTemplateID != "" {
		id := in.PromptTemplateID
		a.PromptTemplateID = &id
		if a.Prompt == "" {
			if tpl, ok := o.catalog.PromptTemplate(ctx, id); ok {
				a.Prompt = catalog.Render(tpl.Body, promptValues(run.form, in.Name))
			}
		}
	}
	return a
}

func promptValues(form Form, assistant string) map[string]string {
	return map[string]string{
		"empresa":    form.Tenant.Name,
		"setor":      form.Tenant.Sector,
		"email":      form.Tenant.Email,
		"site":       form.Tenant.Website,
		"assistente": assistant,
	}
}

func upsertAssistant(list []entity.Assistant, a entity.Assistant) []entity.Assistant {
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = a
			return list
		}
	}
	return append(list, a)
}

// ── Paso 5: funciones ─────────────────────────────────────────────────────────

// completeFunctions no guarda nada propio; solo avanza cuando el paso está activo.
func (o *Orchestrator) completeFunctions(ctx context.Context, run *stepRun) *StepError {
	if serr := requireTenant(run); serr != nil {
		return serr
	}
	run.logf("Funciones: sin cambios")
	return o.advance(ctx, o.store(o.repos), run)
}

// ── Paso 6: avanzado ──────────────────────────────────────────────────────────

func (o *Orchestrator) completeAdvanced(ctx context.Context, run *stepRun) *StepError {
	if serr := requireTenant(run); serr != nil {
		return serr
	}
	in := AdvancedInput{}
	if run.in.Advanced != nil {
		in = *run.in.Advanced
	}

	st := o.store(o.repos)
	cfg := entity.AdvancedConfiguration{
		ID:                 run.form.Advanced.ID,
		TenantID:           run.tenantID,
		Timezone:           in.Timezone,
		Language:           in.Language,
		BusinessHours:      in.BusinessHours,
		WebhookURL:         in.WebhookURL,
		MaxConcurrentChats: in.MaxConcurrentChats,
	}
	saved, err := st.SaveAdvancedConfiguration(ctx, &cfg)
	if err != nil {
		return persistenceErr(StepAdvanced, "", err)
	}
	run.form.Advanced = *saved
	run.logf("Configuración avanzada guardada")

	return o.advance(ctx, st, run)
}

// ── Paso 7: despliegue ────────────────────────────────────────────────────────

func (o *Orchestrator) completeDeploy(ctx context.Context, run *stepRun) *StepError {
	if serr := requireTenant(run); serr != nil {
		return serr
	}
	st := o.store(o.repos)

	p, err := st.Progress(ctx, run.tenantID)
	if err != nil {
		return persistenceErr(StepDeploy, "", err)
	}
	if p == nil {
		p = &entity.OnboardingProgress{TenantID: run.tenantID}
	}
	url := DeploymentURL(run.form.Tenant.Name, o.cfg.DeployDomain)
	now := o.now()
	p.Status = entity.OnboardingStatusDeployed
	p.CurrentStep = StepDeploy
	p.DeploymentURL = &url
	p.DeployedAt = &now

	saved, err := st.SaveProgress(ctx, p)
	if err != nil {
		return persistenceErr(StepDeploy, "", err)
	}
	run.form.Progress = saved
	run.next = StepDeploy
	run.logf("Tenant desplegado en %s", url)
	o.metrics.deployed()
	return nil
}

// ── Progreso ──────────────────────────────────────────────────────────────────

func requireTenant(run *stepRun) *StepError {
	if run.tenantID == "" {
		return stepErr(run.step, KindPrecondition, domain.ErrTenantRequired.Error(), domain.ErrTenantRequired)
	}
	return nil
}

// advance persiste current_step = siguiente paso activo y avanza la sesión.
func (o *Orchestrator) advance(ctx context.Context, st *records.Store, run *stepRun) *StepError {
	p, err := o.advanceProgress(ctx, st, run.tenantID, run.step)
	if err != nil {
		return persistenceErr(run.step, "", err)
	}
	run.form.Progress = p
	run.next = p.CurrentStep
	return nil
}

func (o *Orchestrator) advanceProgress(ctx context.Context, st *records.Store, tenantID string, step int) (*entity.OnboardingProgress, error) {
	p, err := st.Progress(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("leer progreso: %w", err)
	}
	if p == nil {
		p = &entity.OnboardingProgress{TenantID: tenantID}
	}
	if p.Status == "" || p.Status == entity.OnboardingStatusDraft {
		p.Status = entity.OnboardingStatusInProgress
	}
	p.CurrentStep = o.flow.Next(step)
	saved, err := st.SaveProgress(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("guardar progreso: %w", err)
	}
	return saved, nil
}
