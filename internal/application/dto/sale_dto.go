package dto

import "github.com/shopspring/decimal"

// SaleLineRequest línea de una venta. Sin precio se usa el precio del libro.
type SaleLineRequest struct {
	ISBN     string           `json:"isbn" validate:"required"`
	Cantidad int              `json:"cantidad" validate:"required,gt=0"`
	Precio   *decimal.Decimal `json:"precio,omitempty"`
}

// CreateSaleRequest body para POST /ventas. Fecha vacía = hoy.
type CreateSaleRequest struct {
	IDCliente int64             `json:"cliente" validate:"required,gt=0"`
	Fecha     string            `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Libros    []SaleLineRequest `json:"libros" validate:"required,min=1,dive"`
}

// SaleLineResponse línea vendida.
type SaleLineResponse struct {
	IDVenta     int64           `json:"id_venta,omitempty"`
	ISBN        string          `json:"isbn"`
	Titulo      string          `json:"titulo"`
	Cantidad    int             `json:"cantidad"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Fecha       string          `json:"fecha,omitempty"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID        int64              `json:"id"`
	IDCliente int64              `json:"id_cliente"`
	Fecha     string             `json:"fecha"`
	Total     decimal.Decimal    `json:"total"`
	Libros    []SaleLineResponse `json:"libros"`
}
