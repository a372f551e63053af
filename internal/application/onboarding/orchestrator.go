// Package onboarding orquesta el asistente de alta de tenants: ejecuta cada paso contra el
// servicio de aprovisionamiento y el Record Store, persiste el progreso y permite reanudar.
package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/application/records"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// Config parámetros del flujo.
type Config struct {
	Gateway      string // selector de pasarela enviado al crear la cuenta remota
	DeployDomain string
}

// Orchestrator máquina de pasos del asistente. Las sesiones son independientes entre sí;
// dentro de una sesión los pasos se ejecutan de a uno.
type Orchestrator struct {
	repos    repository.Repositories
	tx       repository.TxRunner
	clients  ports.ProvisioningFactory
	catalog  *catalog.Catalog
	flow     *Flow
	cfg      Config
	registry *Registry
	metrics  *Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	repos repository.Repositories,
	tx repository.TxRunner,
	clients ports.ProvisioningFactory,
	cat *catalog.Catalog,
	flow *Flow,
	cfg Config,
	metrics *Metrics,
	log zerolog.Logger,
) *Orchestrator {
	if flow == nil {
		flow = NewFlow(nil)
	}
	return &Orchestrator{
		repos:    repos,
		tx:       tx,
		clients:  clients,
		catalog:  cat,
		flow:     flow,
		cfg:      cfg,
		registry: NewRegistry(),
		metrics:  metrics,
		log:      log.With().Str("component", "onboarding").Logger(),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Flow pasos activos.
func (o *Orchestrator) Flow() *Flow { return o.flow }

func (o *Orchestrator) store(repos repository.Repositories) *records.Store {
	return records.New(repos).WithClock(o.now)
}

// ── Sesiones ──────────────────────────────────────────────────────────────────

// NewSession abre una sesión en el primer paso con un cliente de aprovisionamiento propio.
func (o *Orchestrator) NewSession() *Session {
	s := newSession(o.clients.New(), o.flow.First(), o.now())
	o.register(s)
	o.log.Info().Str("session_id", s.ID).Msg("sesión de onboarding creada")
	return s
}

// Resume abre una sesión para un tenant existente, cargando todo lo guardado e instalando su
// token en el cliente de la sesión. Devuelve domain.ErrNotFound si el tenant no existe.
func (o *Orchestrator) Resume(ctx context.Context, tenantID string) (*Session, error) {
	s := newSession(o.clients.New(), o.flow.First(), o.now())
	loaded, err := o.load(ctx, s.client, tenantID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	loaded.apply(s)
	s.mu.Unlock()

	o.register(s)
	o.log.Info().Str("session_id", s.ID).Str("tenant_id", tenantID).Int("step", loaded.step).
		Msg("sesión de onboarding reanudada")
	return s, nil
}

// Session busca una sesión abierta.
func (o *Orchestrator) Session(id string) (*Session, bool) {
	return o.registry.Get(id)
}

// CloseSession descarta una sesión; lo persistido no cambia.
func (o *Orchestrator) CloseSession(id string) bool {
	ok := o.registry.Remove(id)
	o.metrics.sessions(o.registry.Len())
	return ok
}

// ExpireSessions descarta las sesiones sin actividad durante más de ttl.
func (o *Orchestrator) ExpireSessions(ttl time.Duration) int {
	n := o.registry.Expire(o.now().Add(-ttl))
	o.metrics.sessions(o.registry.Len())
	return n
}

func (o *Orchestrator) register(s *Session) {
	o.registry.Add(s)
	o.metrics.sessions(o.registry.Len())
}

// Reload vuelve a leer del store el tenant de la sesión.
func (o *Orchestrator) Reload(ctx context.Context, s *Session) error {
	run, serr := o.begin(s)
	if serr != nil {
		return serr
	}
	if run.tenantID == "" {
		serr = stepErr(run.step, KindPrecondition, "no hay tenant para recargar", domain.ErrTenantRequired)
		o.finish(s, run, serr)
		return serr
	}

	loaded, err := o.load(ctx, s.client, run.tenantID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		serr = stepErr(run.step, KindPersistence, "no se pudo recargar el tenant", err)
		s.err = serr
		return serr
	}
	loaded.apply(s)
	return nil
}

// State instantánea de la sesión.
func (o *Orchestrator) State(s *Session) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(o.flow)
}

// Back retrocede al paso activo anterior. Es solo navegación: el progreso guardado no se
// reescribe, así que reanudar el tenant vuelve al paso persistido.
func (o *Orchestrator) Back(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return stepErr(s.currentStep, KindBusy, "hay una operación en curso", domain.ErrConflict)
	}
	s.currentStep = o.flow.Prev(s.currentStep)
	s.err = nil
	s.lastActivity = o.now()
	return nil
}

// DismissError limpia el error visible de la sesión.
func (o *Orchestrator) DismissError(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// ── Ejecución de pasos ────────────────────────────────────────────────────────

// CompleteStep ejecuta el paso actual de la sesión con in. Si falla, la sesión queda en el
// mismo paso con el error visible y se devuelve un *StepError. Un fallo no fatal (envío de
// llaves en el paso 2) avanza el paso y deja el error visible sin devolverlo.
func (o *Orchestrator) CompleteStep(ctx context.Context, s *Session, in StepInput) (State, error) {
	run, serr := o.begin(s)
	if serr != nil {
		return o.State(s), serr
	}
	run.in = in
	run.log = o.log.With().Str("session_id", s.ID).Str("step", StepNames[run.step]).Logger()

	start := time.Now()
	serr = o.runStep(ctx, run)
	o.metrics.observeStep(run.step, start, serr)

	st := o.finish(s, run, serr)
	if serr != nil {
		run.log.Warn().Err(serr).Msg("paso del onboarding fallido")
		return st, serr
	}
	return st, nil
}

// stepRun datos de trabajo de un paso; se copian a la sesión al terminar.
type stepRun struct {
	session  *Session
	step     int
	next     int
	in       StepInput
	tenantID string
	form     Form
	logs     []string
	warning  *StepError
	log      zerolog.Logger
}

func (r *stepRun) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.logs = append(r.logs, msg)
	r.log.Info().Msg(msg)
}

// begin marca la sesión como ocupada y copia su estado; rechaza con KindBusy si ya lo está.
func (o *Orchestrator) begin(s *Session) (*stepRun, *StepError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return nil, stepErr(s.currentStep, KindBusy, "hay una operación en curso", domain.ErrConflict)
	}
	s.saving = true
	s.err = nil
	s.lastActivity = o.now()
	return &stepRun{
		session:  s,
		step:     s.currentStep,
		tenantID: s.tenantID,
		form:     s.form.clone(),
		log:      o.log,
	}, nil
}

// finish copia a la sesión lo persistido por el paso. El paso solo avanza sin error.
func (o *Orchestrator) finish(s *Session, run *stepRun, serr *StepError) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	s.lastActivity = o.now()
	s.logs = append(s.logs, run.logs...)
	s.tenantID = run.tenantID
	s.form = run.form
	if serr != nil {
		s.err = serr
		return s.snapshot(o.flow)
	}
	s.currentStep = run.next
	s.err = run.warning
	return s.snapshot(o.flow)
}

func (o *Orchestrator) runStep(ctx context.Context, run *stepRun) *StepError {
	switch run.step {
	case StepCompany:
		return o.completeCompany(ctx, run)
	case StepAPIKeys:
		return o.completeAPIKeys(ctx, run)
	case StepERP:
		return o.completeERP(ctx, run)
	case StepAssistants:
		return o.completeAssistants(ctx, run)
	case StepFunctions:
		return o.completeFunctions(ctx, run)
	case StepAdvanced:
		return o.completeAdvanced(ctx, run)
	case StepDeploy:
		return o.completeDeploy(ctx, run)
	}
	return stepErr(run.step, KindPrecondition, fmt.Sprintf("paso desconocido %d", run.step), domain.ErrInvalidInput)
}

// ── Reanudación ───────────────────────────────────────────────────────────────

type loadedTenant struct {
	tenantID string
	form     Form
	step     int
	message  string
}

func (l loadedTenant) apply(s *Session) {
	s.tenantID = l.tenantID
	s.form = l.form
	s.currentStep = l.step
	s.err = nil
	s.logs = append(s.logs, l.message)
}

// load lee el tenant y todo lo configurado. La ausencia de cada registro se tolera (paso aún
// no configurado); los errores de lectura no. Instala el token del tenant en client.
func (o *Orchestrator) load(ctx context.Context, client ports.ProvisioningClient, tenantID string) (loadedTenant, error) {
	st := o.store(o.repos)

	tenant, err := st.GetTenant(ctx, tenantID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar tenant: %w", err)
	}
	if tenant == nil {
		return loadedTenant{}, fmt.Errorf("tenant %s: %w", tenantID, domain.ErrNotFound)
	}
	form := Form{Tenant: *tenant}

	if tenant.AddressID != nil {
		addr, err := st.GetAddress(ctx, *tenant.AddressID)
		if err != nil {
			return loadedTenant{}, fmt.Errorf("cargar dirección: %w", err)
		}
		if addr != nil {
			form.Address = *addr
		}
	}
	admin, err := st.AdminUser(ctx, tenant.ID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar administrador: %w", err)
	}
	if admin != nil {
		form.Admin = *admin
	}
	apiCfg, err := st.APIConfiguration(ctx, tenant.ID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar configuración de API: %w", err)
	}
	if apiCfg != nil {
		form.APIConfig = *apiCfg
	}
	erpCfg, err := st.ERPConfiguration(ctx, tenant.ID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar configuración ERP: %w", err)
	}
	if erpCfg != nil {
		form.ERPConfig = *erpCfg
	}
	assistants, err := st.Assistants(ctx, tenant.ID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar asistentes: %w", err)
	}
	for _, a := range assistants {
		form.Assistants = append(form.Assistants, *a)
	}
	advanced, err := st.AdvancedConfiguration(ctx, tenant.ID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar configuración avanzada: %w", err)
	}
	if advanced != nil {
		form.Advanced = *advanced
	}
	progress, err := st.Progress(ctx, tenant.ID)
	if err != nil {
		return loadedTenant{}, fmt.Errorf("cargar progreso: %w", err)
	}
	form.Progress = progress

	step := o.flow.First()
	if progress != nil {
		step = o.flow.Normalize(progress.CurrentStep)
	}

	// Cambiar de tenant exige reinstalar su propio token antes de cualquier llamada externa.
	if tenant.HasToken() {
		client.SetToken(*tenant.PipeeloToken)
	} else {
		client.SetToken("")
	}

	return loadedTenant{
		tenantID: tenant.ID,
		form:     form,
		step:     step,
		message:  fmt.Sprintf("Tenant %s cargado en el paso %d", tenant.Name, step),
	}, nil
}
