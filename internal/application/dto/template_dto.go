package dto

import "github.com/jhoicas/onboarding-api/internal/domain/entity"

// ERPTemplateListResponse catálogo de integraciones ERP.
type ERPTemplateListResponse struct {
	Items []entity.ERPTemplate `json:"items"`
}

// PromptTemplateResponse plantilla de prompt con sus marcadores.
type PromptTemplateResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

// PromptTemplateListResponse catálogo de prompts.
type PromptTemplateListResponse struct {
	Items []PromptTemplateResponse `json:"items"`
}

// ERPTemplateRequest alta o edición de una plantilla ERP.
type ERPTemplateRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Fields      []entity.ERPTemplateField `json:"fields"`
	Commands    []entity.ERPCommand       `json:"commands"`
}

// PromptTemplateRequest alta o edición de una plantilla de prompt.
type PromptTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Body        string `json:"body"`
}
