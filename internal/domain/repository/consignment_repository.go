package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// ConsignmentFilter filtros opcionales del listado.
type ConsignmentFilter struct {
	ClientID int64
	Limit    int
	Offset   int
}

// ConsignmentRepository define el puerto para consignaciones.
type ConsignmentRepository interface {
	// Create inserta cabecera y líneas; asigna c.ID.
	Create(ctx context.Context, c *entity.Consignment) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Consignment, error)
	// ListLines devuelve las líneas con ISBN, título y cantidad.
	ListLines(ctx context.Context, consignmentID int64) ([]entity.ConsignmentLine, error)
	List(ctx context.Context, userID int64, f ConsignmentFilter) ([]*entity.ConsignmentSummary, error)
}
