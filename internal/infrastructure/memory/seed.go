package memory

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

//go:embed seed/templates.json
var seedTemplatesJSON []byte

type templateSeed struct {
	ERPTemplates    []entity.ERPTemplate    `json:"erp_templates"`
	PromptTemplates []entity.PromptTemplate `json:"prompt_templates"`
}

// SeedTemplates devuelve el catálogo embebido usado por el driver en memoria.
func SeedTemplates() ([]entity.ERPTemplate, []entity.PromptTemplate, error) {
	var seed templateSeed
	if err := json.Unmarshal(seedTemplatesJSON, &seed); err != nil {
		return nil, nil, fmt.Errorf("seed de plantillas: %w", err)
	}
	return seed.ERPTemplates, seed.PromptTemplates, nil
}
