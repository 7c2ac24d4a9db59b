package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine es una línea vendida: la fuente de datos que se agrega en una liquidación.
type SaleLine struct {
	SaleID    int64
	ISBN      string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	Date      time.Time
}

// Subtotal devuelve cantidad × precio unitario.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale es una venta informada por un cliente sobre libros que tiene en consignación.
type Sale struct {
	ID       int64
	UserID   int64
	ClientID int64
	Date     time.Time
	Lines    []SaleLine
}
