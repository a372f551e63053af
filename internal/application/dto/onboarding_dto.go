package dto

// ResumeSessionRequest reanuda el onboarding de un tenant existente.
type ResumeSessionRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
}

// StepErrorResponse error visible de la sesión.
type StepErrorResponse struct {
	Step    int    `json:"step"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SessionFormResponse datos guardados o cargados en la sesión.
type SessionFormResponse struct {
	Tenant     *TenantResponse         `json:"tenant,omitempty"`
	Address    *AddressResponse        `json:"address,omitempty"`
	Admin      *UserResponse           `json:"admin,omitempty"`
	APIConfig  *APIConfigResponse      `json:"api_config,omitempty"`
	ERPConfig  *ERPConfigResponse      `json:"erp_config,omitempty"`
	Assistants []AssistantResponse     `json:"assistants"`
	Advanced   *AdvancedConfigResponse `json:"advanced,omitempty"`
	Progress   *ProgressResponse       `json:"progress,omitempty"`
}

// SessionStateResponse estado del asistente.
type SessionStateResponse struct {
	ID            string              `json:"id"`
	CurrentStep   int                 `json:"current_step"`
	StepName      string              `json:"step_name"`
	Steps         []int               `json:"steps"`
	Saving        bool                `json:"saving"`
	Error         *StepErrorResponse  `json:"error,omitempty"`
	LogMessages   []string            `json:"log_messages"`
	TenantID      string              `json:"tenant_id,omitempty"`
	Completed     bool                `json:"completed"`
	DeploymentURL string              `json:"deployment_url,omitempty"`
	Form          SessionFormResponse `json:"form"`
}

// StepFailureResponse error de un paso junto con el estado resultante de la sesión.
type StepFailureResponse struct {
	ErrorResponse
	State SessionStateResponse `json:"state"`
}
