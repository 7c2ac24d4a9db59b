// Package reconcile reúne las reglas puras del circuito consignación → venta → liquidación:
// totalización de ventas, validación de períodos y control de stock por lote.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
)

// Total suma cantidad × precio unitario de cada línea con aritmética decimal exacta.
// Un conjunto vacío totaliza cero.
func Total(lines []entity.SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ValidPeriod reporta si p no se solapa con ninguno de los períodos existentes de la misma serie.
func ValidPeriod(existing []entity.Period, p entity.Period) bool {
	for _, e := range existing {
		if e.Overlaps(p) {
			return false
		}
	}
	return true
}

// PeriodOverlapError es el error de validación devuelto cuando el período pedido ya está liquidado.
func PeriodOverlapError() error {
	return &domain.ValidationError{
		Messages: []string{"Ya existe una liquidacion en el periodo seleccionado"},
		Err:      domain.ErrPeriodOverlap,
	}
}

// InsufficientStockError nombra el libro y su ISBN.
func InsufficientStockError(title, isbn string) error {
	return &domain.ValidationError{
		Messages: []string{"El libro " + title + " con isbn " + isbn + " no tiene suficiente stock"},
		Err:      domain.ErrInsufficientStock,
	}
}

// InsufficientClientStockError indica que el cliente no tiene en consignación las unidades informadas.
func InsufficientClientStockError(client, title, isbn string) error {
	return &domain.ValidationError{
		Messages: []string{"El cliente " + client + " no tiene suficiente stock del libro " + title + " con isbn " + isbn},
		Err:      domain.ErrInsufficientStock,
	}
}

// Los precios se guardan como NUMERIC(14,3): hasta 11 dígitos enteros y 3 decimales.
const PriceScale = 3

var maxPrice = decimal.New(1, 14-PriceScale)

// CheckPrice rechaza precios negativos, con más de PriceScale decimales o fuera de rango.
// Un precio que la base redondearía cambiaría los totales ya informados.
func CheckPrice(isbn string, price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return domain.NewValidationError("el precio del libro con isbn %s no puede ser negativo", isbn)
	case !price.Equal(price.Truncate(PriceScale)):
		return domain.NewValidationError("el precio del libro con isbn %s admite como máximo %d decimales", isbn, PriceScale)
	case price.GreaterThanOrEqual(maxPrice):
		return domain.NewValidationError("el precio del libro con isbn %s excede el máximo permitido", isbn)
	}
	return nil
}

// SettledSaleError indica que la fecha de venta cae en un período ya liquidado de la serie.
func SettledSaleError(isbn, date string) error {
	return &domain.ValidationError{
		Messages: []string{"El libro con isbn " + isbn + " ya tiene una liquidacion que incluye la fecha " + date},
		Err:      domain.ErrPeriodOverlap,
	}
}

// StockLedger lleva el stock remanente por ISBN mientras se evalúan las líneas de un lote en orden.
// Un ISBN repetido consume lo que dejaron las líneas anteriores.
type StockLedger struct {
	remaining map[string]int
	order     []string
}

// NewStockLedger crea un ledger vacío.
func NewStockLedger() *StockLedger {
	return &StockLedger{remaining: make(map[string]int)}
}

// Take descuenta qty del ISBN. current es el stock leído de la fuente y sólo se usa
// la primera vez que aparece el ISBN. Devuelve false, sin descontar, si no alcanza.
func (l *StockLedger) Take(isbn string, current, qty int) bool {
	left, seen := l.remaining[isbn]
	if !seen {
		left = current
		l.order = append(l.order, isbn)
	}
	if qty <= 0 || left < qty {
		if !seen {
			l.remaining[isbn] = left
		}
		return false
	}
	l.remaining[isbn] = left - qty
	return true
}

// Remaining devuelve el stock que queda para isbn y si fue visto.
func (l *StockLedger) Remaining(isbn string) (int, bool) {
	n, ok := l.remaining[isbn]
	return n, ok
}

// ISBNs devuelve los ISBN en el orden en que aparecieron.
func (l *StockLedger) ISBNs() []string {
	return append([]string(nil), l.order...)
}
