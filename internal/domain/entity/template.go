package entity

// Tipos de campo de una plantilla ERP.
const (
	FieldTypeText     = "text"
	FieldTypePassword = "password"
	FieldTypeURL      = "url"
	FieldTypeNumber   = "number"
)

// ERPTemplateField campo configurable de una integración ERP.
type ERPTemplateField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder"`
}

// ERPCommand comando con nombre que expone la integración.
type ERPCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ERPTemplate definición de referencia de una integración ERP (catálogo, no pertenece a un tenant).
type ERPTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Fields      []ERPTemplateField `json:"fields"`
	Commands    []ERPCommand       `json:"commands"`
}

// PromptTemplate prompt reutilizable con marcadores {placeholder}.
type PromptTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Body        string `json:"body"`
}
