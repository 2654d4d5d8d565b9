package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o están fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// APIResponse sobre común de todas las respuestas.
// Status es true solo en respuestas exitosas; Code identifica la categoría de error.
type APIResponse struct {
	Message    string      `json:"message"`
	Status     bool        `json:"status"`
	StatusCode int         `json:"status_code"`
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// ListResponse listado paginado.
type ListResponse struct {
	Items interface{}  `json:"items"`
	Page  PageResponse `json:"page"`
}
