package ports

import (
	"context"

	"github.com/jhoicas/onboarding-api/pkg/queue"
)

// ProvisioningClient define el puerto de salida hacia el servicio remoto de aprovisionamiento.
// Cada instancia mantiene un único bearer token: una sesión de onboarding usa su propia
// instancia y nunca la comparte con otro tenant.
type ProvisioningClient interface {
	// SetToken instala el bearer token usado por las llamadas autenticadas ("" lo borra).
	SetToken(token string)
	Token() string

	// CreateTenantAccount crea la cuenta remota del tenant y su usuario administrador.
	CreateTenantAccount(ctx context.Context, tenant TenantDraft, user UserDraft, gateway string) (*RemoteAccount, error)
	// Login intercambia credenciales del administrador por un token de sesión.
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	// GetPermanentToken intercambia un token de sesión por uno de larga duración.
	GetPermanentToken(ctx context.Context, shortLived string) (*TokenResponse, error)

	UpdateOpenAI(ctx context.Context, key string) error
	UpdateOpenRouter(ctx context.Context, key string) error

	// Enqueue difiere una llamada; ExecuteQueue las ejecuta en orden y devuelve un resultado por
	// llamada sin que un fallo detenga las demás.
	Enqueue(name string, fn func(ctx context.Context) error)
	ExecuteQueue(ctx context.Context) []queue.Result
}

// ProvisioningFactory construye un cliente nuevo por sesión.
type ProvisioningFactory interface {
	New() ProvisioningClient
}

// TenantDraft datos de la empresa enviados al crear la cuenta remota.
type TenantDraft struct {
	Name         string `json:"name"`
	Document     string `json:"document"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website,omitempty"`
	Sector       string `json:"sector,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// UserDraft datos del usuario administrador de la cuenta remota.
type UserDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Document string `json:"document"`
	Phone    string `json:"phone,omitempty"`
}

// RemoteAccount respuesta de creación: trae un token corto o directamente uno permanente.
type RemoteAccount struct {
	ID             string `json:"id"`
	Token          string `json:"token,omitempty"`
	PermanentToken string `json:"permanent_token,omitempty"`
}

// TokenResponse respuesta de login y de intercambio de token.
type TokenResponse struct {
	Token string `json:"token"`
}
