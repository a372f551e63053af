package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Assistant asistente de IA configurado para el tenant (paso 4).
type Assistant struct {
	ID               string
	TenantID         string
	Name             string
	PromptTemplateID *string // FK a prompt_templates; nil = prompt libre
	Prompt           string
	Model            string
	Temperature      decimal.Decimal
	Enabled          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
