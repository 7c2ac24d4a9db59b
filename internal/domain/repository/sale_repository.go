package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// SaleFilter filtros opcionales del listado de ventas.
type SaleFilter struct {
	ClientID int64
	ISBN     string
	Limit    int
	Offset   int
}

// SaleRepository define el puerto para ventas informadas por clientes.
type SaleRepository interface {
	// Create inserta la venta y sus líneas; asigna s.ID.
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Sale, error)
	List(ctx context.Context, userID int64, f SaleFilter) ([]*entity.Sale, error)
	// ListLines devuelve las líneas vendidas de la serie cuya fecha de venta cae dentro del período.
	ListLines(ctx context.Context, series entity.SettlementSeries, period entity.Period) ([]entity.SaleLine, error)
}
