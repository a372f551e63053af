package onboarding

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// Form estado de formulario de la sesión: lo último guardado o cargado por paso.
type Form struct {
	Tenant     entity.Tenant
	Address    entity.Address
	Admin      entity.User
	APIConfig  entity.APIConfiguration
	ERPConfig  entity.ERPConfiguration
	Assistants []entity.Assistant
	Advanced   entity.AdvancedConfiguration
	Progress   *entity.OnboardingProgress
}

func (f Form) clone() Form {
	out := f
	out.Assistants = append([]entity.Assistant(nil), f.Assistants...)
	if f.ERPConfig.Fields != nil {
		out.ERPConfig.Fields = make(map[string]string, len(f.ERPConfig.Fields))
		for k, v := range f.ERPConfig.Fields {
			out.ERPConfig.Fields[k] = v
		}
	}
	if f.Progress != nil {
		p := *f.Progress
		out.Progress = &p
	}
	return out
}

// Session estado de un asistente en curso. Cada sesión tiene su propio cliente de
// aprovisionamiento, así el token de un tenant nunca se usa en otra sesión.
type Session struct {
	ID        string
	CreatedAt time.Time

	client ports.ProvisioningClient

	mu           sync.Mutex
	currentStep  int
	saving       bool
	err          *StepError
	logs         []string
	tenantID     string
	form         Form
	lastActivity time.Time
}

func newSession(client ports.ProvisioningClient, firstStep int, now time.Time) *Session {
	return &Session{
		ID:           uuid.New().String(),
		CreatedAt:    now,
		client:       client,
		currentStep:  firstStep,
		lastActivity: now,
	}
}

// LastActivity última vez que la sesión ejecutó o navegó un paso.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// idleSince informa si la sesión está inactiva desde antes de cutoff. Una sesión con un paso
// en curso nunca está inactiva.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.saving && s.lastActivity.Before(cutoff)
}

// State instantánea de la sesión.
type State struct {
	ID          string
	CurrentStep int
	Steps       []int
	Saving      bool
	Error       *StepError
	LogMessages []string
	TenantID    string
	Completed   bool
	Form        Form
}

// DeploymentURL URL de despliegue si el tenant ya fue desplegado.
func (s State) DeploymentURL() string {
	if s.Form.Progress != nil && s.Form.Progress.DeploymentURL != nil {
		return *s.Form.Progress.DeploymentURL
	}
	return ""
}

// snapshot arma el State. Llamar con s.mu tomado.
func (s *Session) snapshot(flow *Flow) State {
	st := State{
		ID:          s.ID,
		CurrentStep: s.currentStep,
		Steps:       flow.Steps(),
		Saving:      s.saving,
		Error:       s.err,
		LogMessages: append([]string(nil), s.logs...),
		TenantID:    s.tenantID,
		Form:        s.form.clone(),
	}
	st.Completed = st.Form.Progress != nil && st.Form.Progress.Status == entity.OnboardingStatusDeployed
	return st
}

// Registry sesiones activas por ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registra la sesión.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get busca una sesión por ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove elimina la sesión; devuelve false si no existía.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len número de sesiones activas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Expire elimina las sesiones sin actividad desde cutoff y devuelve cuántas eliminó.
func (r *Registry) Expire(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
