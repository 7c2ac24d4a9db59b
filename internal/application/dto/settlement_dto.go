package dto

import "github.com/shopspring/decimal"

// CreateSettlementRequest body para POST /liquidaciones.
type CreateSettlementRequest struct {
	ISBN         string `json:"isbn" validate:"required"`
	IDCliente    int64  `json:"id_cliente" validate:"required,gt=0"`
	FechaInicial string `json:"fecha_inicial" validate:"required,datetime=2006-01-02"`
	FechaFinal   string `json:"fecha_final" validate:"required,datetime=2006-01-02"`
}

// SettlementResponse liquidación. FilePath es la URL pública del documento.
type SettlementResponse struct {
	ID           int64           `json:"id"`
	ISBN         string          `json:"isbn"`
	IDCliente    int64           `json:"id_cliente"`
	FechaInicial string          `json:"fecha_inicial"`
	FechaFinal   string          `json:"fecha_final"`
	Total        decimal.Decimal `json:"total"`
	FilePath     string          `json:"file_path"`
}

// SettlementDetailResponse liquidación con su libro y el detalle de ventas.
type SettlementDetailResponse struct {
	SettlementResponse
	Libro  *BookResponse      `json:"libro"`
	Ventas []SaleLineResponse `json:"ventas"`
}
