package http

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
)

// toStateResponse mapea el estado de la sesión; llaves y campos secretos del ERP van enmascarados.
func toStateResponse(ctx context.Context, cat *catalog.Catalog, st onboarding.State) dto.SessionStateResponse {
	out := dto.SessionStateResponse{
		ID:            st.ID,
		CurrentStep:   st.CurrentStep,
		StepName:      onboarding.StepNames[st.CurrentStep],
		Steps:         st.Steps,
		Saving:        st.Saving,
		LogMessages:   st.LogMessages,
		TenantID:      st.TenantID,
		Completed:     st.Completed,
		DeploymentURL: st.DeploymentURL(),
	}
	if out.LogMessages == nil {
		out.LogMessages = []string{}
	}
	if st.Error != nil {
		out.Error = &dto.StepErrorResponse{Step: st.Error.Step, Kind: string(st.Error.Kind), Message: st.Error.Message}
	}

	f := st.Form
	out.Form = dto.SessionFormResponse{
		Tenant:     dto.ToTenantResponse(&f.Tenant),
		Address:    dto.ToAddressResponse(&f.Address),
		Admin:      dto.ToUserResponse(&f.Admin),
		APIConfig:  dto.ToAPIConfigResponse(&f.APIConfig),
		Assistants: dto.ToAssistantResponses(f.Assistants),
		Advanced:   dto.ToAdvancedConfigResponse(&f.Advanced),
		Progress:   dto.ToProgressResponse(f.Progress),
	}
	if f.ERPConfig.ID != "" {
		tpl, _ := cat.ERPTemplate(ctx, f.ERPConfig.TemplateID)
		out.Form.ERPConfig = dto.ToERPConfigResponse(&f.ERPConfig, tpl)
	}
	return out
}
