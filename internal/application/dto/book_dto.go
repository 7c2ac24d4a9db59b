package dto

import "github.com/shopspring/decimal"

// CreateBookRequest body para POST /libros.
type CreateBookRequest struct {
	ISBN         string          `json:"isbn" validate:"required,max=20"`
	Titulo       string          `json:"titulo" validate:"required,max=255"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock" validate:"min=0"`
	Autores      []int64         `json:"autores" validate:"omitempty,dive,gt=0"`
	Ilustradores []int64         `json:"ilustradores" validate:"omitempty,dive,gt=0"`
}

// AddStockRequest body para PUT /libros/:isbn/stock.
type AddStockRequest struct {
	Cantidad int `json:"cantidad" validate:"required,gt=0"`
}

// BookResponse libro con sus personas.
type BookResponse struct {
	ISBN         string            `json:"isbn"`
	Titulo       string            `json:"titulo"`
	Precio       decimal.Decimal   `json:"precio"`
	Stock        int               `json:"stock"`
	Autores      []PersonaResponse `json:"autores,omitempty"`
	Ilustradores []PersonaResponse `json:"ilustradores,omitempty"`
}

// CreatePersonaRequest body para POST /personas.
type CreatePersonaRequest struct {
	Nombre string `json:"nombre" validate:"required,max=255"`
	Email  string `json:"email" validate:"omitempty,email"`
	DNI    string `json:"dni" validate:"omitempty,numeric,min=7,max=8"`
}

// PersonaResponse autor o ilustrador.
type PersonaResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email,omitempty"`
	DNI    string `json:"dni,omitempty"`
}
