package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book es un título del catálogo de la editorial. Stock nunca es negativo:
// las consignaciones lo descuentan sólo después de validar la disponibilidad.
type Book struct {
	ISBN      string
	UserID    int64
	Title     string
	Price     decimal.Decimal // precio de venta sugerido
	Stock     int
	CreatedAt time.Time
}
