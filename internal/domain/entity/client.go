package entity

import "time"

// Tipos de cliente.
const (
	ClientTypeInscripto  = "inscripto"
	ClientTypeParticular = "particular"
)

// Client es un cliente de la editorial (librería, distribuidora o particular).
type Client struct {
	ID         int64
	UserID     int64
	Name       string
	CUIT       string
	Email      string
	CondFiscal string
	Type       string
	Address    string
	CreatedAt  time.Time
}

// ClientStock es la cantidad de un libro que el cliente tiene en consignación.
type ClientStock struct {
	ClientID int64
	ISBN     string
	Title    string
	Stock    int
}
