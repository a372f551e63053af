// Package provisioning implementa el cliente HTTP del servicio remoto de aprovisionamiento de tenants.
package provisioning

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/pkg/document"
	"github.com/jhoicas/onboarding-api/pkg/queue"
)

var (
	_ ports.ProvisioningClient  = (*Client)(nil)
	_ ports.ProvisioningFactory = (*Factory)(nil)
)

// Rutas del servicio remoto.
const (
	pathTenants        = "/tenants"
	pathLogin          = "/login"
	pathPermanentToken = "/permanent-token"
	pathOpenAI         = "/openai"
	pathOpenRouter     = "/open-router"
)

// Verbos usados en mensajes de error y etiquetas de métricas.
const (
	VerbCreateTenant      = "Create tenant"
	VerbLogin             = "Login"
	VerbGetPermanentToken = "Get permanent token"
	VerbUpdateOpenAI      = "Update OpenAI"
	VerbUpdateOpenRouter  = "Update OpenRouter"
)

// Config parámetros del cliente.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CSRFToken string // fallback cuando el contexto no trae token CSRF
}

// Client cliente de aprovisionamiento con un único bearer token mutable.
// Cada sesión de onboarding debe usar su propia instancia (ver Factory).
type Client struct {
	http    *resty.Client
	csrf    string
	metrics *Metrics
	log     zerolog.Logger
	queue   *queue.Queue

	mu    sync.RWMutex
	token string
}

// NewClient construye el cliente sobre resty.
func NewClient(cfg Config, metrics *Metrics, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    client,
		csrf:    cfg.CSRFToken,
		metrics: metrics,
		log:     log.With().Str("component", "provisioning").Logger(),
		queue:   queue.New(),
	}
}

// SetToken instala el bearer token ("" lo borra).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token devuelve el bearer token instalado.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type createTenantRequest struct {
	Tenant  ports.TenantDraft `json:"tenant"`
	User    ports.UserDraft   `json:"user"`
	Gateway string            `json:"gateway"`
}

// CreateTenantAccount POST /tenants. Documentos y teléfonos se envían solo con dígitos.
func (c *Client) CreateTenantAccount(ctx context.Context, tenant ports.TenantDraft, user ports.UserDraft, gateway string) (*ports.RemoteAccount, error) {
	tenant.Document = document.Digits(tenant.Document)
	tenant.Phone = document.Digits(tenant.Phone)
	tenant.PostalCode = document.Digits(tenant.PostalCode)
	user.Document = document.Digits(user.Document)
	user.Phone = document.Digits(user.Phone)

	body := createTenantRequest{Tenant: tenant, User: user, Gateway: gateway}
	var account ports.RemoteAccount
	if err := c.post(ctx, VerbCreateTenant, pathTenants, c.Token(), body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /login. El servicio devuelve "<realm>|<token>"; solo el segundo segmento sirve.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.TokenResponse, error) {
	var out ports.TokenResponse
	if err := c.post(ctx, VerbLogin, pathLogin, "", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	out.Token = sessionToken(out.Token)
	return &out, nil
}

// GetPermanentToken POST /permanent-token autenticado con el token corto.
func (c *Client) GetPermanentToken(ctx context.Context, shortLived string) (*ports.TokenResponse, error) {
	if shortLived == "" {
		return nil, fmt.Errorf("%s: %w", VerbGetPermanentToken, ErrTokenNotSet)
	}
	var out ports.TokenResponse
	if err := c.post(ctx, VerbGetPermanentToken, pathPermanentToken, shortLived, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type keyRequest struct {
	Key string `json:"key"`
}

// UpdateOpenAI POST /openai. Requiere token instalado.
func (c *Client) UpdateOpenAI(ctx context.Context, key string) error {
	return c.pushKey(ctx, VerbUpdateOpenAI, pathOpenAI, key)
}

// UpdateOpenRouter POST /open-router. Requiere token instalado.
func (c *Client) UpdateOpenRouter(ctx context.Context, key string) error {
	return c.pushKey(ctx, VerbUpdateOpenRouter, pathOpenRouter, key)
}

func (c *Client) pushKey(ctx context.Context, verb, path, key string) error {
	token := c.Token()
	if token == "" {
		return fmt.Errorf("%s: %w", verb, ErrTokenNotSet)
	}
	return c.post(ctx, verb, path, token, keyRequest{Key: key}, nil)
}

// Enqueue difiere una llamada hasta ExecuteQueue.
func (c *Client) Enqueue(name string, fn func(ctx context.Context) error) {
	c.queue.Enqueue(name, fn)
}

// ExecuteQueue ejecuta las llamadas diferidas en orden y registra las fallidas.
func (c *Client) ExecuteQueue(ctx context.Context) []queue.Result {
	results := c.queue.Execute(ctx)
	for _, r := range queue.Failed(results) {
		c.log.Warn().Err(r.Err).Str("call", r.Name).Msg("llamada diferida fallida")
	}
	return results
}

// post ejecuta la petición y convierte cualquier respuesta no 2xx en *APIError.
func (c *Client) post(ctx context.Context, verb, path, bearer string, body, result any) error {
	start := time.Now()

	req := c.http.R().SetContext(ctx).SetBody(body)
	if result != nil {
		req.SetResult(result).ForceContentType("application/json")
	}
	if bearer != "" {
		req.SetAuthToken(bearer)
	}
	if csrf := c.csrfToken(ctx); csrf != "" {
		req.SetHeader(HeaderCSRF, csrf)
	}

	resp, err := req.Post(path)
	if err != nil {
		err = fmt.Errorf("%s failed: %w", verb, err)
	} else if !resp.IsSuccess() {
		err = newAPIError(verb, resp)
	}
	c.metrics.Observe(verb, start, err)

	if err != nil {
		c.log.Warn().Err(err).Str("verb", verb).Str("path", path).Msg("llamada de aprovisionamiento fallida")
		return err
	}
	c.log.Debug().Str("verb", verb).Str("path", path).Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).Msg("llamada de aprovisionamiento")
	return nil
}

func (c *Client) csrfToken(ctx context.Context) string {
	if token, ok := CSRFTokenFrom(ctx); ok {
		return token
	}
	return c.csrf
}

func newAPIError(verb string, resp *resty.Response) *APIError {
	return &APIError{
		Verb:       verb,
		StatusCode: resp.StatusCode(),
		StatusText: http.StatusText(resp.StatusCode()),
		Body:       resp.String(),
	}
}

// sessionToken toma el segundo segmento de "<realm>|<token>"; sin separador devuelve el valor tal cual.
func sessionToken(composite string) string {
	if _, token, ok := strings.Cut(composite, "|"); ok {
		return token
	}
	return composite
}

// Factory construye un cliente por sesión compartiendo configuración y métricas.
type Factory struct {
	cfg     Config
	metrics *Metrics
	log     zerolog.Logger
}

// NewFactory crea la fábrica de clientes.
func NewFactory(cfg Config, metrics *Metrics, log zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, metrics: metrics, log: log}
}

// New devuelve un cliente nuevo sin token.
func (f *Factory) New() ports.ProvisioningClient {
	return NewClient(f.cfg, f.metrics, f.log)
}
