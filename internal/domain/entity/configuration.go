package entity

import "time"

// APIConfiguration llaves de proveedores LLM del tenant (paso 2).
type APIConfiguration struct {
	ID            string
	TenantID      string
	OpenAIKey     string
	OpenRouterKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ERPConfiguration integración ERP elegida del catálogo (paso 3).
type ERPConfiguration struct {
	ID         string
	TenantID   string
	TemplateID string            // FK a erp_templates
	Fields     map[string]string // valores para los campos declarados en la plantilla
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AdvancedConfiguration ajustes avanzados del tenant (paso 6).
type AdvancedConfiguration struct {
	ID                 string
	TenantID           string
	Timezone           string
	Language           string
	BusinessHours      string
	WebhookURL         string
	MaxConcurrentChats int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
