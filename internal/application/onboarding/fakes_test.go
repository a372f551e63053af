package onboarding_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
	"github.com/jhoicas/onboarding-api/pkg/queue"
)

// fakeClient cliente de aprovisionamiento en memoria que registra las llamadas.
type fakeClient struct {
	mu    sync.Mutex
	token string
	calls []string
	queue *queue.Queue

	account       ports.RemoteAccount
	loginToken    string
	permanent     string
	createErr     error
	loginErr      error
	permanentErr  error
	openAIErr     error
	openRouterErr error
	onCreate      func(ctx context.Context)
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeClient) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) CreateTenantAccount(ctx context.Context, _ ports.TenantDraft, _ ports.UserDraft, gateway string) (*ports.RemoteAccount, error) {
	if f.onCreate != nil {
		f.onCreate(ctx)
	}
	f.record("create:" + gateway)
	if f.createErr != nil {
		return nil, f.createErr
	}
	acc := f.account
	return &acc, nil
}

func (f *fakeClient) Login(_ context.Context, email, _ string) (*ports.TokenResponse, error) {
	f.record("login:" + email)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &ports.TokenResponse{Token: f.loginToken}, nil
}

func (f *fakeClient) GetPermanentToken(_ context.Context, short string) (*ports.TokenResponse, error) {
	f.record("permanent:" + short)
	if f.permanentErr != nil {
		return nil, f.permanentErr
	}
	return &ports.TokenResponse{Token: f.permanent}, nil
}

var errNoToken = errors.New("authorization token not set")

func (f *fakeClient) UpdateOpenAI(_ context.Context, key string) error {
	if f.Token() == "" {
		return errNoToken
	}
	f.record("openai:" + key)
	return f.openAIErr
}

func (f *fakeClient) UpdateOpenRouter(_ context.Context, key string) error {
	if f.Token() == "" {
		return errNoToken
	}
	f.record("openrouter:" + key)
	return f.openRouterErr
}

func (f *fakeClient) Enqueue(name string, fn func(ctx context.Context) error) {
	f.queue.Enqueue(name, fn)
}

func (f *fakeClient) ExecuteQueue(ctx context.Context) []queue.Result {
	return f.queue.Execute(ctx)
}

// fakeFactory crea fakeClient configurados con setup.
type fakeFactory struct {
	mu      sync.Mutex
	setup   func(*fakeClient)
	clients []*fakeClient
}

func (f *fakeFactory) New() ports.ProvisioningClient {
	c := &fakeClient{
		queue:      queue.New(),
		loginToken: "session-token",
		permanent:  "perm-token",
	}
	if f.setup != nil {
		f.setup(c)
	}
	f.mu.Lock()
	f.clients = append(f.clients, c)
	f.mu.Unlock()
	return c
}

func (f *fakeFactory) last() *fakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clients[len(f.clients)-1]
}

// failingUsersTx hace fallar la creación del administrador dentro de la transacción.
type failingUsersTx struct {
	inner repository.TxRunner
}

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) Create(context.Context, *entity.User) error {
	return errors.New("disco lleno")
}

func (f failingUsersTx) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	return f.inner.Run(ctx, func(r repository.Repositories) error {
		r.Users = failingUsers{r.Users}
		return fn(r)
	})
}

type harness struct {
	orch    *onboarding.Orchestrator
	db      *memory.DB
	clients *fakeFactory
	metrics *onboarding.Metrics
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	steps []int
	tx    func(repository.TxRunner) repository.TxRunner
	setup func(*fakeClient)
}

func withSteps(steps ...int) harnessOption {
	return func(c *harnessConfig) { c.steps = steps }
}

func withTx(wrap func(repository.TxRunner) repository.TxRunner) harnessOption {
	return func(c *harnessConfig) { c.tx = wrap }
}

func withClient(setup func(*fakeClient)) harnessOption {
	return func(c *harnessConfig) { c.setup = setup }
}

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	erp, prompts, err := memory.SeedTemplates()
	require.NoError(t, err)
	db := memory.NewDB(erp, prompts)

	var tx repository.TxRunner = memory.NewTxRunner(db)
	if cfg.tx != nil {
		tx = cfg.tx(tx)
	}
	clients := &fakeFactory{setup: cfg.setup}
	metrics := onboarding.NewMetrics(prometheus.NewRegistry())

	orch := onboarding.NewOrchestrator(
		db.Repositories(),
		tx,
		clients,
		catalog.New(db, zerolog.Nop()),
		onboarding.NewFlow(cfg.steps),
		onboarding.Config{Gateway: "asaas", DeployDomain: "pipeelo.com"},
		metrics,
		zerolog.Nop(),
	).WithClock(func() time.Time { return fixedNow })

	return &harness{orch: orch, db: db, clients: clients, metrics: metrics}
}

// IDs del catálogo embebido.
const (
	erpBlingID      = "8f4a6c1e-3b2d-4e5f-9a10-1c2d3e4f5a61"
	erpTinyID       = "2b7e9d3f-6a1c-4b8e-8d2f-5e6a7b8c9d02"
	promptAtendeID  = "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e53"
	missingPromptID = "00000000-0000-4000-8000-000000000001"
	missingERPTplID = "00000000-0000-4000-8000-000000000002"
)

func companyInput() onboarding.StepInput {
	return onboarding.StepInput{Company: &onboarding.CompanyInput{
		Name:     "Acme Co",
		Document: "12.345.678/0001-90",
		Phone:    "+55 11 98765-4321",
		Email:    "contato@acme.co",
		Sector:   "varejo",
		Address: onboarding.AddressInput{
			Street: "Rua das Flores", Number: "100", City: "São Paulo", State: "SP", Country: "BR", PostalCode: "01000-000",
		},
		Admin: onboarding.AdminInput{Name: "Ana", Email: "ana@acme.co", Password: "secreto123", Document: "123.456.789-09"},
	}}
}

func apiKeysInput() onboarding.StepInput {
	return onboarding.StepInput{APIKeys: &onboarding.APIKeysInput{OpenAIKey: "sk-1", OpenRouterKey: "or-1"}}
}

func erpInput() onboarding.StepInput {
	return onboarding.StepInput{ERP: &onboarding.ERPInput{TemplateID: erpTinyID, Fields: map[string]string{"token": "tiny-token"}}}
}

func assistantsInput(names ...string) onboarding.StepInput {
	in := onboarding.StepInput{}
	for _, n := range names {
		in.Assistants = append(in.Assistants, onboarding.AssistantInput{Name: n, Prompt: "Olá"})
	}
	return in
}

func advancedInput() onboarding.StepInput {
	return onboarding.StepInput{Advanced: &onboarding.AdvancedInput{Timezone: "America/Sao_Paulo", Language: "pt-BR", MaxConcurrentChats: 5}}
}

// completeThrough avanza una sesión nueva hasta dejarla en el paso target.
func (h *harness) completeThrough(t *testing.T, s *onboarding.Session, target int) {
	t.Helper()
	inputs := map[int]onboarding.StepInput{
		onboarding.StepCompany:    companyInput(),
		onboarding.StepAPIKeys:    apiKeysInput(),
		onboarding.StepERP:        erpInput(),
		onboarding.StepAssistants: assistantsInput("Atendente"),
		onboarding.StepFunctions:  {},
		onboarding.StepAdvanced:   advancedInput(),
	}
	for {
		st := h.orch.State(s)
		if st.CurrentStep >= target {
			return
		}
		_, err := h.orch.CompleteStep(context.Background(), s, inputs[st.CurrentStep])
		require.NoError(t, err, "paso %d", st.CurrentStep)
	}
}

// failOnceTx falla la primera transacción (creación del administrador) y deja pasar las demás.
type failOnceTx struct {
	inner  repository.TxRunner
	failed bool
}

func (f *failOnceTx) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	if !f.failed {
		f.failed = true
		return failingUsersTx{inner: f.inner}.Run(ctx, fn)
	}
	return f.inner.Run(ctx, fn)
}
