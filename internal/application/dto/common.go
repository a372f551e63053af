package dto

// Topes de paginación de los listados del panel.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest ?limit=&offset= de los listados del panel.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el límite por defecto y los topes: Limit en [1, MaxPageLimit], Offset >= 0.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página. HasMore es true cuando la página vino llena y puede
// haber más filas; los listados no cuentan el total.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse arma los metadatos de una página con count filas.
func NewPageResponse(limit, offset, count int) PageResponse {
	return PageResponse{Limit: limit, Offset: offset, Count: count, HasMore: limit > 0 && count == limit}
}

// ErrorResponse cuerpo de error HTTP. Code es estable (VALIDATION, NOT_FOUND, CONFLICT,
// SESSION_NOT_FOUND...); Message es para el operador.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
