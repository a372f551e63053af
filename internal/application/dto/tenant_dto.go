package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantResponse salida de un tenant. El token de aprovisionamiento nunca se expone.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Website   string    `json:"website"`
	Sector    string    `json:"sector"`
	AddressID *string   `json:"address_id,omitempty"`
	HasToken  bool      `json:"has_token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddressResponse dirección del tenant.
type AddressResponse struct {
	ID           string `json:"id"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
	Complement   string `json:"complement"`
	PostalCode   string `json:"postal_code"`
}

// ProgressResponse progreso del onboarding.
type ProgressResponse struct {
	Status        string     `json:"status"`
	CurrentStep   int        `json:"current_step"`
	TotalSteps    int        `json:"total_steps"`
	DeploymentURL string     `json:"deployment_url,omitempty"`
	DeployedAt    *time.Time `json:"deployed_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// APIConfigResponse llaves enmascaradas.
type APIConfigResponse struct {
	OpenAIKey     string `json:"openai_key"`
	OpenRouterKey string `json:"openrouter_key"`
}

// ERPConfigResponse integración ERP; los campos de tipo password se enmascaran.
type ERPConfigResponse struct {
	TemplateID string            `json:"template_id"`
	Fields     map[string]string `json:"fields"`
}

// AssistantResponse asistente configurado.
type AssistantResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	PromptTemplateID *string         `json:"prompt_template_id,omitempty"`
	Prompt           string          `json:"prompt"`
	Model            string          `json:"model"`
	Temperature      decimal.Decimal `json:"temperature"`
	Enabled          bool            `json:"enabled"`
}

// AdvancedConfigResponse ajustes avanzados.
type AdvancedConfigResponse struct {
	Timezone           string `json:"timezone"`
	Language           string `json:"language"`
	BusinessHours      string `json:"business_hours"`
	WebhookURL         string `json:"webhook_url"`
	MaxConcurrentChats int    `json:"max_concurrent_chats"`
}

// TenantListItem fila del listado del panel.
type TenantListItem struct {
	TenantResponse
	Progress *ProgressResponse `json:"progress,omitempty"`
}

// TenantListResponse listado paginado de tenants.
type TenantListResponse struct {
	Items []TenantListItem `json:"items"`
	Page  PageResponse     `json:"page"`
}

// TenantDetailResponse todo lo guardado de un tenant.
type TenantDetailResponse struct {
	Tenant     TenantResponse          `json:"tenant"`
	Address    *AddressResponse        `json:"address,omitempty"`
	Admin      *UserResponse           `json:"admin,omitempty"`
	Progress   *ProgressResponse       `json:"progress,omitempty"`
	APIConfig  *APIConfigResponse      `json:"api_config,omitempty"`
	ERPConfig  *ERPConfigResponse      `json:"erp_config,omitempty"`
	Assistants []AssistantResponse     `json:"assistants"`
	Advanced   *AdvancedConfigResponse `json:"advanced,omitempty"`
}

// UpdateTenantRequest datos editables de un tenant desde el panel. El token de
// aprovisionamiento y la dirección no se editan por aquí.
type UpdateTenantRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	Sector   string `json:"sector"`
}
