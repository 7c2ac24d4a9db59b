package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// SuccessResponse cuerpo de las altas exitosas.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorItem un mensaje de error.
type ErrorItem struct {
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP: {success: false, errors: [{message}]}.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Errors  []ErrorItem `json:"errors"`
}

// NewErrorResponse arma el cuerpo de error con uno o más mensajes.
func NewErrorResponse(messages ...string) ErrorResponse {
	items := make([]ErrorItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, ErrorItem{Message: m})
	}
	return ErrorResponse{Success: false, Errors: items}
}
