package dto

import (
	"strings"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// MaskSecret deja visibles solo los últimos 4 caracteres.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}

// ToTenantResponse mapea un tenant sin exponer su token.
func ToTenantResponse(t *entity.Tenant) *TenantResponse {
	if t == nil || t.ID == "" {
		return nil
	}
	return &TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Document:  t.Document,
		Phone:     t.Phone,
		Email:     t.Email,
		Website:   t.Website,
		Sector:    t.Sector,
		AddressID: t.AddressID,
		HasToken:  t.HasToken(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func ToAddressResponse(a *entity.Address) *AddressResponse {
	if a == nil || a.ID == "" {
		return nil
	}
	return &AddressResponse{
		ID:           a.ID,
		Street:       a.Street,
		Number:       a.Number,
		Neighborhood: a.Neighborhood,
		Country:      a.Country,
		State:        a.State,
		City:         a.City,
		Complement:   a.Complement,
		PostalCode:   a.PostalCode,
	}
}

func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil || u.ID == "" {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Document:  u.Document,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToProgressResponse(p *entity.OnboardingProgress) *ProgressResponse {
	if p == nil {
		return nil
	}
	out := &ProgressResponse{
		Status:      p.Status,
		CurrentStep: p.CurrentStep,
		TotalSteps:  p.TotalSteps,
		DeployedAt:  p.DeployedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.DeploymentURL != nil {
		out.DeploymentURL = *p.DeploymentURL
	}
	return out
}

func ToAPIConfigResponse(c *entity.APIConfiguration) *APIConfigResponse {
	if c == nil || c.ID == "" {
		return nil
	}
	return &APIConfigResponse{OpenAIKey: MaskSecret(c.OpenAIKey), OpenRouterKey: MaskSecret(c.OpenRouterKey)}
}

// ToERPConfigResponse enmascara los campos que la plantilla declara como password.
// Sin plantilla se enmascaran todos.
func ToERPConfigResponse(c *entity.ERPConfiguration, tpl *entity.ERPTemplate) *ERPConfigResponse {
	if c == nil || c.ID == "" {
		return nil
	}
	secret := func(string) bool { return true }
	if tpl != nil {
		types := make(map[string]string, len(tpl.Fields))
		for _, f := range tpl.Fields {
			types[f.Name] = f.Type
		}
		secret = func(name string) bool { return types[name] == entity.FieldTypePassword }
	}
	fields := make(map[string]string, len(c.Fields))
	for k, v := range c.Fields {
		if secret(k) {
			v = MaskSecret(v)
		}
		fields[k] = v
	}
	return &ERPConfigResponse{TemplateID: c.TemplateID, Fields: fields}
}

func ToAssistantResponses(list []entity.Assistant) []AssistantResponse {
	out := make([]AssistantResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AssistantResponse{
			ID:               a.ID,
			Name:             a.Name,
			PromptTemplateID: a.PromptTemplateID,
			Prompt:           a.Prompt,
			Model:            a.Model,
			Temperature:      a.Temperature,
			Enabled:          a.Enabled,
		})
	}
	return out
}

func ToAdvancedConfigResponse(c *entity.AdvancedConfiguration) *AdvancedConfigResponse {
	if c == nil || c.ID == "" {
		return nil
	}
	return &AdvancedConfigResponse{
		Timezone:           c.Timezone,
		Language:           c.Language,
		BusinessHours:      c.BusinessHours,
		WebhookURL:         c.WebhookURL,
		MaxConcurrentChats: c.MaxConcurrentChats,
	}
}
