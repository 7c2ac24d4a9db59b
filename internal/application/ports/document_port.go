package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// Publisher datos de la editorial que encabezan los documentos.
type Publisher struct {
	RazonSocial string
	CUIT        string
	CondFiscal  string
	Domicilio   string
}

// RemitoData contenido del remito de una consignación.
type RemitoData struct {
	Publisher Publisher
	Client    entity.Client
	Date      time.Time
	Lines     []entity.ConsignmentLine
}

// SettlementData contenido del documento de liquidación.
type SettlementData struct {
	Publisher Publisher
	Client    entity.Client
	Book      entity.Book
	Period    entity.Period
	Lines     []entity.SaleLine
	Total     decimal.Decimal
}

// DocumentGenerator genera los PDF de remitos y liquidaciones.
type DocumentGenerator interface {
	Remito(ctx context.Context, data RemitoData) ([]byte, error)
	Settlement(ctx context.Context, data SettlementData) ([]byte, error)
}

// PublisherFromUser arma el encabezado desde el usuario; sin razón social usa el username.
func PublisherFromUser(u *entity.User) Publisher {
	if u == nil {
		return Publisher{}
	}
	name := u.RazonSocial
	if name == "" {
		name = u.Username
	}
	return Publisher{RazonSocial: name, CUIT: u.CUIT, CondFiscal: u.CondFiscal, Domicilio: u.Domicilio}
}
