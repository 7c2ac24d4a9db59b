package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// SettlementFilter filtros opcionales del listado.
type SettlementFilter struct {
	ISBN     string
	ClientID int64
	Limit    int
	Offset   int
}

// SettlementRepository define el puerto para liquidaciones.
type SettlementRepository interface {
	// LockSeries serializa las altas de una misma serie hasta el fin de la transacción.
	LockSeries(ctx context.Context, series entity.SettlementSeries) error
	// ListOverlapping devuelve los períodos ya liquidados de la serie que se solapan con p.
	ListOverlapping(ctx context.Context, series entity.SettlementSeries, p entity.Period) ([]entity.Period, error)
	// Create inserta la liquidación; asigna s.ID.
	Create(ctx context.Context, s *entity.Settlement) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Settlement, error)
	List(ctx context.Context, userID int64, f SettlementFilter) ([]*entity.Settlement, error)
}
