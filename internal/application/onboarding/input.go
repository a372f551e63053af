package onboarding

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/onboarding-api/pkg/document"
)

// StepInput payload de CompleteStep; solo se usa la sección del paso actual.
type StepInput struct {
	Company    *CompanyInput    `json:"company,omitempty"`
	APIKeys    *APIKeysInput    `json:"api_keys,omitempty"`
	ERP        *ERPInput        `json:"erp,omitempty"`
	Assistants []AssistantInput `json:"assistants,omitempty"`
	Advanced   *AdvancedInput   `json:"advanced,omitempty"`
}

// CompanyInput paso 1: empresa, dirección y administrador.
type CompanyInput struct {
	Name     string       `json:"name"`
	Document string       `json:"document"`
	Phone    string       `json:"phone"`
	Email    string       `json:"email"`
	Website  string       `json:"website"`
	Sector   string       `json:"sector"`
	Address  AddressInput `json:"address"`
	Admin    AdminInput   `json:"admin"`
}

// AddressInput dirección del tenant.
type AddressInput struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
	Complement   string `json:"complement"`
	PostalCode   string `json:"postal_code"`
}

// AdminInput usuario administrador.
type AdminInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

// APIKeysInput paso 2. Las llaves vacías no se envían al servicio remoto.
type APIKeysInput struct {
	OpenAIKey     string `json:"openai_key"`
	OpenRouterKey string `json:"openrouter_key"`
}

// ERPInput paso 3.
type ERPInput struct {
	TemplateID string            `json:"template_id"`
	Fields     map[string]string `json:"fields"`
}

// AssistantInput paso 4. Sin Prompt y con PromptTemplateID se usa el cuerpo de la plantilla.
type AssistantInput struct {
	ID               string           `json:"id,omitempty"`
	Name             string           `json:"name"`
	PromptTemplateID string           `json:"prompt_template_id,omitempty"`
	Prompt           string           `json:"prompt,omitempty"`
	Model            string           `json:"model,omitempty"`
	Temperature      *decimal.Decimal `json:"temperature,omitempty"`
	Enabled          *bool            `json:"enabled,omitempty"`
}

// AdvancedInput paso 6.
type AdvancedInput struct {
	Timezone           string `json:"timezone"`
	Language           string `json:"language"`
	BusinessHours      string `json:"business_hours"`
	WebhookURL         string `json:"webhook_url"`
	MaxConcurrentChats int    `json:"max_concurrent_chats"`
}

// validate predicados simples por paso; devuelve el mensaje para el usuario o "".
func (c *CompanyInput) validate() string {
	switch {
	case c == nil:
		return "faltan los datos de la empresa"
	case c.Name == "":
		return "el nombre de la empresa es obligatorio"
	case document.Digits(c.Document) == "":
		return "el documento de la empresa es obligatorio"
	case c.Admin.Email == "":
		return "el email del administrador es obligatorio"
	case c.Admin.Password == "":
		return "la contraseña del administrador es obligatoria"
	}
	return ""
}

func (e *ERPInput) validate() string {
	if e == nil || e.TemplateID == "" {
		return "seleccione una plantilla ERP"
	}
	return ""
}

func (a AssistantInput) validate() string {
	if a.Name == "" {
		return "el nombre del asistente es obligatorio"
	}
	return ""
}
