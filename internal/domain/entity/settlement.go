package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementSeries identifica la serie de liquidaciones dentro de la cual los períodos no pueden solaparse:
// mismo usuario, mismo libro y mismo cliente.
type SettlementSeries struct {
	UserID   int64
	ISBN     string
	ClientID int64
}

// LockKey es la clave estable usada para serializar altas de la misma serie.
func (s SettlementSeries) LockKey() string {
	return fmt.Sprintf("liquidacion:%d:%s:%d", s.UserID, s.ISBN, s.ClientID)
}

// Settlement (liquidación) totaliza las ventas de un libro a un cliente en un período.
// Se crea una vez y no se modifica. FilePath guarda el nombre relativo del documento.
type Settlement struct {
	ID        int64
	UserID    int64
	ISBN      string
	ClientID  int64
	Period    Period
	Total     decimal.Decimal
	FilePath  string
	CreatedAt time.Time
}

// Series devuelve la serie a la que pertenece la liquidación.
func (s *Settlement) Series() SettlementSeries {
	return SettlementSeries{UserID: s.UserID, ISBN: s.ISBN, ClientID: s.ClientID}
}
