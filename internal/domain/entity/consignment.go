package entity

import "time"

// ConsignmentLine es un libro entregado en consignación con su cantidad.
// Compone el Book (no lo extiende) junto con los autores e ilustradores resueltos al consignar.
type ConsignmentLine struct {
	Book         Book
	Quantity     int
	Authors      []Persona
	Illustrators []Persona
}

// Consignment es una entrega de stock a un cliente. Se crea una vez, con todas sus líneas.
// RemitoPath guarda el nombre relativo del remito; la URL pública se arma al leer.
type Consignment struct {
	ID         int64
	UserID     int64
	ClientID   int64
	Date       time.Time
	RemitoPath string
	Lines      []ConsignmentLine
}

// TotalUnits devuelve la suma de cantidades de las líneas.
func (c *Consignment) TotalUnits() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// ConsignmentSummary es la fila de listado de consignaciones (con datos del cliente).
type ConsignmentSummary struct {
	ID         int64
	Date       time.Time
	RemitoPath string
	ClientID   int64
	ClientName string
	CUIT       string
	Email      string
	CondFiscal string
	ClientType string
}
